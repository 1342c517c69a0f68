package handler

import (
	"net/http"

	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/service/session"
	"emotionserver/internal/service/websocket"

	gorilla "github.com/gorilla/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket for same-origin pages.
var Upgrader = gorilla.Upgrader{}

// EventsWebsocketHandler registers the connection with the hub so the tab
// receives the session's state after every detection.
func EventsWebsocketHandler(hub *websocket.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		sessionID := middleware.SessionID(r)
		hub.Register(sessionID, connection)
		defer hub.Unregister(sessionID, connection)

		logger.Info("Viewer connected for session %s", session.Tag(sessionID))

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if gorilla.IsCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
					logger.Info("Viewer disconnected normally")
				} else {
					logger.Warning("Viewer disconnected with error: %v", err)
				}
				break
			}
		}
	}
}
