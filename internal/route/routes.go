package route

import (
	"net/http"
	"os"
	"path/filepath"

	"emotionserver/internal/config"
	"emotionserver/internal/handler"
	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/service"
	"emotionserver/internal/service/websocket"
)

// dynamicHTMLHandler serves /path as <static>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers the page, static files and API endpoints, and wraps
// the mux with the session middleware. Log and admin endpoints need cfg.LogsToken.
func SetupRoutes(manager *service.Manager, hub *websocket.HubService, limiter *middleware.RateLimiter, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	admin := func(h http.Handler) http.Handler {
		return middleware.AdminMiddleware(cfg.LogsToken, h)
	}

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	mux.HandleFunc("GET /health", handler.HealthCheck)

	// API endpoints
	mux.HandleFunc("POST /api/detect", handler.DetectHandler(manager, cfg, logger))
	mux.HandleFunc("GET /api/session", handler.SessionHandler(manager))
	mux.HandleFunc("GET /api/session/quote", handler.QuoteHandler(manager))
	mux.HandleFunc("GET /api/session/audio", handler.AudioHandler(manager, logger))
	mux.HandleFunc("GET /api/session/preview", handler.PreviewHandler(manager))
	mux.HandleFunc("GET /api/emotions", handler.EmotionsHandler(manager))
	mux.HandleFunc("GET /api/history", handler.HistoryHandler(manager, logger))
	mux.HandleFunc("DELETE /api/history", handler.ClearHistoryHandler(manager, logger))
	mux.HandleFunc("POST /api/suggestions", handler.SuggestionHandler(manager, limiter, logger))
	mux.HandleFunc("GET /api/events", handler.EventsWebsocketHandler(hub, logger))

	// Log and admin endpoints
	for _, name := range []string{"info", "warning", "error"} {
		file := name + ".log"
		mux.Handle("GET /logs/"+name, admin(handler.ShowLogsHandler(logger, file)))
		mux.Handle("POST /logs/"+name+"/clear", admin(handler.ClearLogsHandler(logger, file)))
	}
	mux.Handle("GET /admin/suggestions", admin(handler.SuggestionsListHandler(manager, logger)))

	// Automatic HTML handler mapping, for example /about -> <static>/about.html
	mux.HandleFunc("GET /", dynamicHTMLHandler(cfg.StaticDirectory))

	return middleware.SessionMiddleware(mux)
}
