package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"emotionserver/internal/dto"
	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/service"
	"emotionserver/internal/service/mail"
)

// SuggestionHandler handles POST /api/suggestions from a form post or a JSON body.
func SuggestionHandler(manager *service.Manager, limiter *middleware.RateLimiter, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

		var req dto.SuggestionRequest
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid request body")
				return
			}
		} else {
			req = dto.SuggestionRequest{
				Name:       r.FormValue("name"),
				Email:      r.FormValue("email"),
				Phone:      r.FormValue("phone"),
				Suggestion: r.FormValue("suggestion"),
			}
		}

		sg := mail.Suggestion{
			Name:  req.Name,
			Email: req.Email,
			Phone: req.Phone,
			Text:  req.Suggestion,
		}
		if err := sg.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "⚠ Please fill all fields.")
			return
		}

		// Only complete suggestions count against the limit.
		sessionID := middleware.SessionID(r)
		if !limiter.Allow(sessionID) {
			writeError(w, http.StatusTooManyRequests, "Too many suggestions, please try again later")
			return
		}

		err := manager.SubmitSuggestion(r.Context(), sessionID, sg)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "✅ Thank you! Your suggestion has been sent."})
		case errors.Is(err, mail.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "⚠ Please fill all fields.")
		case errors.Is(err, mail.ErrNotConfigured):
			writeError(w, http.StatusServiceUnavailable, "❌ Failed to send email: "+mail.ErrNotConfigured.Error())
		default:
			writeError(w, http.StatusBadGateway, "❌ Failed to send email: "+err.Error())
		}
	}
}

// SuggestionsListHandler returns the newest recorded suggestions.
func SuggestionsListHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := atoiDefault(r.URL.Query().Get("limit"), 50)
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		suggestions, err := manager.RecentSuggestions(r.Context(), limit)
		if err != nil {
			logger.Error("Error querying suggestions: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
	}
}
