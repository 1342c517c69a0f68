package websocket

import (
	"context"
	"sync"
	"time"

	"emotionserver/internal/logger"
	"emotionserver/internal/service/session"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

type client struct {
	session string
	conn    *websocket.Conn
}

type message struct {
	session string
	data    []byte
}

// HubService pushes session state updates to every open tab of a session.
type HubService struct {
	clients    map[string]map[*websocket.Conn]bool
	broadcast  chan message
	register   chan client
	unregister chan client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *logger.Logger
}

// NewHubService creates a hub; Run must be started before clients register.
func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[string]map[*websocket.Conn]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan client),
		unregister: make(chan client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// closes every connection.
func (h *HubService) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for _, conns := range h.clients {
				for conn := range conns {
					conn.Close()
				}
			}
			h.clients = make(map[string]map[*websocket.Conn]bool)
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			if h.clients[c.session] == nil {
				h.clients[c.session] = make(map[*websocket.Conn]bool)
			}
			h.clients[c.session][c.conn] = true
			h.mutex.Unlock()
			h.logger.Info("Client connected. Total: %d", h.GetClientCount())

		case c := <-h.unregister:
			h.mutex.Lock()
			h.remove(c.session, c.conn)
			h.mutex.Unlock()
			h.logger.Info("Client disconnected. Total: %d", h.GetClientCount())

		case msg := <-h.broadcast:
			h.mutex.Lock()
			for conn := range h.clients[msg.session] {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, msg.data); err != nil {
					h.logger.Error("Error sending message: %v", err)
					h.remove(msg.session, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// remove drops a connection; callers hold the write lock.
func (h *HubService) remove(session string, conn *websocket.Conn) {
	conns, ok := h.clients[session]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		conn.Close()
	}
	if len(conns) == 0 {
		delete(h.clients, session)
	}
}

// Register attaches a connection to a session.
func (h *HubService) Register(session string, conn *websocket.Conn) {
	select {
	case h.register <- client{session: session, conn: conn}:
	case <-h.done:
		conn.Close()
	}
}

// Unregister detaches and closes a connection.
func (h *HubService) Unregister(session string, conn *websocket.Conn) {
	select {
	case h.unregister <- client{session: session, conn: conn}:
	case <-h.done:
		conn.Close()
	}
}

// Broadcast queues data for every connection of the session. It never
// blocks the caller: when the queue is full the update is dropped.
func (h *HubService) Broadcast(sessionID string, data []byte) {
	select {
	case h.broadcast <- message{session: sessionID, data: data}:
	default:
		h.logger.Warning("Broadcast queue full, dropping update for session %s", session.Tag(sessionID))
	}
}

// GetClientCount returns the number of open connections across sessions.
func (h *HubService) GetClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
