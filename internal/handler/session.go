package handler

import (
	"net/http"

	"emotionserver/internal/dto"
	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/service"
	"emotionserver/internal/service/content"
)

// SessionHandler returns the session's active emotion and face box.
func SessionHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := manager.Session(middleware.SessionID(r))
		writeJSON(w, http.StatusOK, dto.NewSessionInfo(state))
	}
}

// QuoteHandler returns the shayari picked for the session's emotion.
func QuoteHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := manager.Session(middleware.SessionID(r))
		if !state.Active() {
			writeError(w, http.StatusNotFound, "No emotion detected yet")
			return
		}

		quote := state.Quote
		if quote == "" {
			quote = content.QuoteNotFound
		}
		writeJSON(w, http.StatusOK, map[string]string{"emotion": state.Emotion, "quote": quote})
	}
}

// AudioHandler streams the song picked for the session's emotion, or answers
// 404 with a warning when there is none.
func AudioHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := manager.Session(middleware.SessionID(r))
		if !state.Active() {
			writeError(w, http.StatusNotFound, "No emotion detected yet")
			return
		}
		if !state.HasSong() {
			writeError(w, http.StatusNotFound, content.SongNotFound)
			return
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFile(w, r, state.SongPath)
	}
}

// PreviewHandler serves the annotated image of the session's last detection.
func PreviewHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := manager.Session(middleware.SessionID(r))
		if !state.Active() || len(state.Preview) == 0 {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(state.Preview)
	}
}

// EmotionsHandler lists the emotions the content library has folders for.
func EmotionsHandler(manager *service.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"emotions": manager.Emotions()})
	}
}
