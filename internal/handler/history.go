package handler

import (
	"net/http"

	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/service"
)

const maxHistoryLimit = 100

// HistoryHandler returns the session's recent detections.
func HistoryHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 20)
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		data, err := manager.History(r.Context(), middleware.SessionID(r), limit)
		if err != nil {
			logger.Error("Error querying detection history: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// ClearHistoryHandler deletes the session's detections and current state.
func ClearHistoryHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := manager.ClearHistory(r.Context(), middleware.SessionID(r)); err != nil {
			logger.Error("Error clearing detection history: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HealthCheck is a simple endpoint to verify the server is running.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
