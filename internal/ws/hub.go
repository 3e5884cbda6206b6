// Package ws fans out store events to connected admin dashboards.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go-wigstore-api/pkg/logger"

	"github.com/gofiber/contrib/websocket"
)

const (
	TypeStockUpdate = "stock_update"
	TypeOrderUpdate = "order_update"
)

// Event is one message on the admin feed.
type Event struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	Data    any    `json:"data,omitempty"`
	User    string `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}

// Publisher is what services depend on; *Hub implements it.
type Publisher interface {
	Publish(e Event)
}

// Discard drops every event. Used by the CLI and in tests.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			logger.L.Debug("ws client connected", "clients", h.Count())

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Attach registers conn, or closes it when the hub has stopped.
func (h *Hub) Attach(conn *websocket.Conn) {
	select {
	case h.Register <- conn:
	case <-h.done:
		conn.Close()
	}
}

// Detach unregisters conn. It never blocks once the hub has stopped.
func (h *Hub) Detach(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

// Publish queues an event without blocking the caller. When the queue is
// full the event is dropped; the feed is advisory.
func (h *Hub) Publish(e Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		logger.L.Error("ws marshal event", "type", e.Type, "error", err)
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		logger.L.Warn("ws broadcast queue full, dropping event", "type", e.Type, "action", e.Action)
	}
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}
