package hub

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
)

// ErrDuplicateClient indicates a registration with an ID already in use.
var ErrDuplicateClient = errors.New("client id already registered")

// Hub owns the connection directory and broadcast engine.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	cursors map[string]json.RawMessage
}

// New creates an empty hub.
func New(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[string]*Client),
		cursors: make(map[string]json.RawMessage),
	}
}

// Register records a new connection. Fails if the ID is already taken.
func (h *Hub) Register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[c.id]; exists {
		return ErrDuplicateClient
	}
	h.clients[c.id] = c
	h.logger.Info("client registered",
		"client_id", c.id, "room_id", c.roomID, "total_clients", len(h.clients))
	return nil
}

// Unregister removes the connection record and its cursor entry,
// returning the room assignment. Idempotent: a second call for the same
// ID returns ok=false.
func (h *Hub) Unregister(clientID string) (roomID string, ok bool) {
	h.mu.Lock()
	c, exists := h.clients[clientID]
	if !exists {
		h.mu.Unlock()
		return "", false
	}
	delete(h.clients, clientID)
	delete(h.cursors, clientID)
	c.closed = true
	total := len(h.clients)
	h.mu.Unlock()

	// Close the outbound queue after releasing the lock; the write pump
	// sees the close and shuts the transport down.
	close(c.send)

	h.logger.Info("client unregistered",
		"client_id", clientID, "room_id", c.roomID, "total_clients", total)
	return c.roomID, true
}

// Client returns the connection record for an ID.
func (h *Hub) Client(clientID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[clientID]
	return c, ok
}

// MembersOf returns the IDs of all connections in a room, optionally
// excluding one (the sender, to avoid echo). Pass "" to exclude nobody.
func (h *Hub) MembersOf(roomID, excludeID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var members []string
	for id, c := range h.clients {
		if c.roomID == roomID && id != excludeID {
			members = append(members, id)
		}
	}
	return members
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo marshals and delivers a message to one client. Returns false
// when the client is gone or its queue is full; the failure stays local
// to that recipient.
func (h *Hub) SendTo(clientID string, message any) bool {
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal outbound message failed", "error", err)
		return false
	}
	return h.deliver(clientID, payload)
}

// BroadcastToRoom delivers a message independently to every room member
// except excludeID. Best-effort, at-most-once per currently-registered
// recipient; one slow or broken recipient never affects the others.
func (h *Hub) BroadcastToRoom(message any, roomID, excludeID string) {
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal broadcast message failed", "error", err)
		return
	}

	for _, id := range h.MembersOf(roomID, excludeID) {
		h.deliver(id, payload)
	}
}

// deliver enqueues raw bytes onto one client's outbound queue. A full
// queue means the recipient cannot keep up: its transport is closed and
// the regular disconnect path cleans it up.
func (h *Hub) deliver(clientID string, payload []byte) bool {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	if !ok || c.closed {
		h.mu.RUnlock()
		return false
	}

	select {
	case c.send <- payload:
		h.mu.RUnlock()
		return true
	default:
		h.mu.RUnlock()
		h.logger.Warn("outbound queue full, dropping client",
			"client_id", clientID, "room_id", c.roomID)
		c.CloseTransport()
		return false
	}
}

// SetCursor overwrites the client's cursor payload. Cursor state is
// ephemeral: it is never persisted and vanishes on disconnect.
func (h *Hub) SetCursor(clientID string, data json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[clientID]; !ok {
		return
	}
	h.cursors[clientID] = data
}

// CursorsForRoom returns the cursors of clients currently in the room.
func (h *Hub) CursorsForRoom(roomID string) map[string]json.RawMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]json.RawMessage)
	for id, data := range h.cursors {
		if c, ok := h.clients[id]; ok && c.roomID == roomID {
			out[id] = data
		}
	}
	return out
}
