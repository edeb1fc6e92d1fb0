package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is a status notification pushed to connected clients when an
// entity transitions.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains active WebSocket connections and fans out events.
// Admins subscribe to everything; citizens and drivers receive events
// addressed to their user id.
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Outbound events
	broadcast chan *message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu sync.RWMutex
}

type message struct {
	userID string
	event  Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop. Map mutation only happens here,
// under the write lock; the send channel is closed only on unregister,
// which each client's read pump delivers exactly once.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("✅ [WS] Client connected: %s (%s), total %d", client.UserID, client.UserRole, total)

		case client := <-h.unregister:
			h.mu.Lock()
			// A reconnect may have replaced this entry already; only
			// remove the map entry if it is still this client.
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			close(client.send)
			remaining := len(h.clients)
			h.mu.Unlock()
			log.Printf("🔴 [WS] Client disconnected: %s, remaining %d", client.UserID, remaining)

		case msg := <-h.broadcast:
			h.mu.Lock()
			if client, ok := h.clients[msg.userID]; ok {
				data, err := json.Marshal(msg.event)
				if err != nil {
					log.Printf("ws: failed to marshal event: %v", err)
					h.mu.Unlock()
					continue
				}
				select {
				case client.send <- data:
				default:
					// Slow consumer: drop it from the map and close the
					// socket. The read pump's unregister finishes the
					// teardown and closes the send channel.
					delete(h.clients, client.UserID)
					client.conn.Close()
					log.Printf("⚠️ [WS] Client buffer full, disconnecting: %s", msg.userID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToUser sends an event to one connected user, if present.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	h.broadcast <- &message{userID: userID, event: event}
}

// BroadcastToRole sends an event to every connected user with the
// given role.
func (h *Hub) BroadcastToRole(role string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}

	for _, client := range h.clients {
		if client.UserRole == role {
			select {
			case client.send <- data:
			default:
				// Skip clients with full buffers; the read pump will
				// reap them if they are truly gone.
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsUserConnected checks if a user is currently connected.
func (h *Hub) IsUserConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
