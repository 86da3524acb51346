package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mesaja/seating/notify"
	"github.com/mesaja/seating/utils"
)

// Message is the frame sent to dashboard clients.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds the connected dashboard clients (host stand, waiters, managers)
// and pushes every notification to them.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
	}
}

// Register adds a connection with the role it authenticated as.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
	utils.InfoLogger.Printf("Activity client connected (role=%s, clients=%d)", role, len(h.clients))
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) Name() string { return "websocket" }

// Deliver broadcasts a group event to every client. Direct messages are
// private and never reach the dashboards. A client that cannot be written to
// is dropped.
func (h *Hub) Deliver(ctx context.Context, ev notify.Event) error {
	if ev.IsDirect() {
		return nil
	}

	data, err := json.Marshal(Message{Event: ev.Kind, Data: ev})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(5 * time.Second)
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	var failed int
	for conn, role := range h.clients {
		conn.SetWriteDeadline(deadline)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Warnf("Dropping activity client (role=%s): %v", role, err)
			delete(h.clients, conn)
			conn.Close()
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d activity client(s) unreachable", failed)
	}
	return nil
}
