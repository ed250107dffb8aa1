package feed

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const sendBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectator feed is read-only and unauthenticated by design.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub broadcasts events to connected websocket spectators. Slow or dead
// connections are dropped rather than allowed to stall the game loop.
type Hub struct {
	logger *log.Logger

	mu    sync.Mutex
	conns map[*spectator]bool
}

type spectator struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger: logger.WithPrefix("feed"),
		conns:  make(map[*spectator]bool),
	}
}

// ServeHTTP upgrades the request and registers the spectator
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade spectator connection", "error", err)
		return
	}

	s := &spectator{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.conns[s] = true
	h.mu.Unlock()
	h.logger.Info("Spectator connected", "remote", conn.RemoteAddr())

	go h.writeLoop(s)
	go h.readLoop(s)
}

// Publish implements Publisher
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to marshal event", "type", ev.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.conns {
		select {
		case s.send <- payload:
		default:
			// Spectator cannot keep up; cut them loose.
			delete(h.conns, s)
			close(s.send)
		}
	}
}

func (h *Hub) writeLoop(s *spectator) {
	for payload := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(s)
			return
		}
	}
	_ = s.conn.Close()
}

// readLoop drains incoming frames so pings and close messages are
// processed; spectators have nothing to say otherwise.
func (h *Hub) readLoop(s *spectator) {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			h.drop(s)
			return
		}
	}
}

func (h *Hub) drop(s *spectator) {
	h.mu.Lock()
	if _, ok := h.conns[s]; ok {
		delete(h.conns, s)
		close(s.send)
	}
	h.mu.Unlock()
	_ = s.conn.Close()
}
