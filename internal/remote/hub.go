package remote

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const writeWait = 2 * time.Second

// Hub tracks websocket clients and pushes state to them.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	log     *log.Logger
}

func newHub(logger *log.Logger) *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{}), log: logger}
}

// add registers conn and sends it the current state, idle or not.
func (h *Hub) add(conn *websocket.Conn, st State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	h.log.Debug("websocket client connected", "clients", len(h.clients))
	h.write(conn, st)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	_ = conn.Close()
	h.log.Debug("websocket client disconnected", "clients", len(h.clients))
}

// broadcast writes st to every client, dropping the ones that fail.
func (h *Hub) broadcast(st State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		h.write(conn, st)
	}
}

// write must be called with mu held.
func (h *Hub) write(conn *websocket.Conn, st State) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(st); err != nil {
		h.log.Warn("websocket write failed", "err", err)
		delete(h.clients, conn)
		_ = conn.Close()
	}
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		delete(h.clients, conn)
	}
}
