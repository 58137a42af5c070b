package realtime

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageTypeVisitorCount labels live counter updates on the wire.
const MessageTypeVisitorCount = "visitor_count"

// Message represents a WebSocket message sent to display widgets.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// CountPayload carries the current visitor count.
type CountPayload struct {
	Count int64 `json:"count"`
}

// Hub maintains the set of connected display widgets and broadcasts the
// live visitor count to all of them. A widget that disconnects is
// unregistered and its send channel torn down, so subscriptions never leak.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	log        *zap.Logger
	upgrader   websocket.Upgrader
}

// NewHub creates a new Hub
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The portfolio frontend is served from a different origin
			// than the API; the live count is public data.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run processes client lifecycle events and broadcasts until the context
// is canceled, then closes every remaining connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("websocket client connected", zap.Int("total_clients", total))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("websocket client disconnected", zap.Int("total_clients", total))

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// BroadcastCount pushes a new counter value to every connected widget.
// Never blocks the caller: when the hub's queue is full the update is
// dropped, the next one carries a fresher value anyway.
func (h *Hub) BroadcastCount(count int64) {
	msg := Message{
		Type: MessageTypeVisitorCount,
		Data: CountPayload{Count: count},
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("realtime broadcast queue full, dropping count update", zap.Int64("count", count))
	}
}

// ClientCount returns the number of connected widgets.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request into a hub-managed WebSocket connection.
// The current count is queued as the first message so a widget renders
// immediately instead of waiting for the next visitor.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, currentCount int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn)
	client.send <- Message{
		Type: MessageTypeVisitorCount,
		Data: CountPayload{Count: currentCount},
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Hub) broadcastToClients(message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// The client is not draining its queue; drop the update
			// rather than block every other widget.
			h.log.Debug("dropping message for slow websocket client")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.log.Info("websocket hub shut down, all clients closed")
}
