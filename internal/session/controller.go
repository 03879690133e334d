package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mfriesen/boardsync/internal/hub"
	"github.com/mfriesen/boardsync/internal/model"
	"github.com/mfriesen/boardsync/internal/room"
	"github.com/mfriesen/boardsync/internal/store"
)

// Controller orchestrates connection lifecycle and operation processing
// against the room registry, snapshot store, and broadcast hub.
type Controller struct {
	registry *room.Registry
	store    store.Store
	hub      *hub.Hub
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-room processing locks
}

// NewController wires the controller to its collaborators.
func NewController(reg *room.Registry, st store.Store, h *hub.Hub, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		registry: reg,
		store:    st,
		hub:      h,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// roomLock returns the processing lock serializing whole-message
// handling for one room. Cross-room traffic never contends.
func (c *Controller) roomLock(roomID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lk, ok := c.locks[roomID]
	if !ok {
		lk = &sync.Mutex{}
		c.locks[roomID] = lk
	}
	return lk
}

// HandleConnect runs the CONNECTING -> ACTIVE transition: register the
// connection, ensure the room is loaded, send the initial sync
// snapshot, then announce the join to the rest of the room. The room
// lock guarantees no concurrent edit's broadcast reaches the new client
// before its sync.
func (c *Controller) HandleConnect(ctx context.Context, client *hub.Client) error {
	lk := c.roomLock(client.RoomID())
	lk.Lock()
	defer lk.Unlock()

	if err := c.hub.Register(client); err != nil {
		return err
	}

	rm := c.registry.Get(ctx, client.RoomID())
	c.sendSync(client.ID(), rm)

	c.hub.BroadcastToRoom(model.PresenceMessage{
		Type:     model.TypeUserJoined,
		ClientID: client.ID(),
	}, client.RoomID(), client.ID())

	return nil
}

// HandleDisconnect runs the ACTIVE -> CLOSED transition: unregister,
// drop cursor state, flush the room to storage, announce the departure.
// Idempotent: a second invocation for the same connection is a no-op,
// so user_left goes out at most once.
func (c *Controller) HandleDisconnect(ctx context.Context, client *hub.Client) {
	lk := c.roomLock(client.RoomID())
	lk.Lock()
	defer lk.Unlock()

	roomID, ok := c.hub.Unregister(client.ID())
	if !ok {
		return
	}

	c.persistRoom(ctx, roomID)

	c.hub.BroadcastToRoom(model.PresenceMessage{
		Type:     model.TypeUserLeft,
		ClientID: client.ID(),
	}, roomID, client.ID())
}

// Dispatch processes one inbound frame. Messages from one connection
// arrive here in order; unknown or malformed frames are ignored.
func (c *Controller) Dispatch(ctx context.Context, client *hub.Client, raw []byte) {
	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Debug("ignoring malformed message",
			"client_id", client.ID(), "error", err)
		return
	}

	switch env.Type {
	case model.TypeOperation:
		c.handleOperation(ctx, client, env.Data)
	case model.TypeBatch:
		c.handleBatch(ctx, client, env.Data)
	case model.TypeCursor:
		c.handleCursor(client, env.Data)
	case model.TypeDelete:
		c.handleDelete(ctx, client, env.ElementID)
	case model.TypeSyncReq:
		c.handleSyncRequest(ctx, client)
	case model.TypePing:
		c.hub.SendTo(client.ID(), model.ControlMessage{Type: model.TypePong})
	default:
		c.logger.Debug("ignoring unknown message type",
			"client_id", client.ID(), "type", env.Type)
	}
}
