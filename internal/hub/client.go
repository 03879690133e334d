package hub

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one connection record: identifier, outbound queue, and the
// room the connection belongs to. A client stays in exactly one room
// for its lifetime; switching rooms requires a reconnect.
type Client struct {
	id     string
	roomID string
	conn   *websocket.Conn // nil for in-process clients in tests
	send   chan []byte

	closeOnce sync.Once
	closed    bool // guarded by the hub mutex
}

// NewClient creates a connection record with a bounded outbound queue.
func NewClient(id, roomID string, conn *websocket.Conn, sendBuffer int) *Client {
	return &Client{
		id:     id,
		roomID: roomID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

// ID returns the client identifier.
func (c *Client) ID() string { return c.id }

// RoomID returns the room this connection is assigned to.
func (c *Client) RoomID() string { return c.roomID }

// Conn returns the underlying WebSocket connection, nil for in-process
// clients.
func (c *Client) Conn() *websocket.Conn { return c.conn }

// Outbox returns the outbound queue consumed by the write pump.
func (c *Client) Outbox() <-chan []byte { return c.send }

// CloseTransport closes the underlying connection, causing the read
// pump to exit and the normal disconnect path to run. Safe to call more
// than once and with no transport attached.
func (c *Client) CloseTransport() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
	})
}
