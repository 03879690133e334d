package session

import (
	"context"
	"encoding/json"

	"github.com/mfriesen/boardsync/internal/hub"
	"github.com/mfriesen/boardsync/internal/model"
	"github.com/mfriesen/boardsync/internal/room"
)

// handleOperation applies one element upsert under last-write-wins.
// On accept: state updated in place, room persisted, operation relayed
// to the rest of the room. Rejections are silent no-ops.
func (c *Controller) handleOperation(ctx context.Context, client *hub.Client, data json.RawMessage) {
	var el model.Element
	if err := json.Unmarshal(data, &el); err != nil || el.ID == "" {
		c.logger.Debug("ignoring invalid operation", "client_id", client.ID())
		return
	}

	lk := c.roomLock(client.RoomID())
	lk.Lock()
	defer lk.Unlock()

	rm := c.registry.Get(ctx, client.RoomID())
	if !rm.ApplyOperation(el) {
		return
	}

	c.persistRoom(ctx, client.RoomID())

	c.hub.BroadcastToRoom(model.OperationMessage{
		Type:     model.TypeOperation,
		Data:     el,
		SenderID: client.ID(),
	}, client.RoomID(), client.ID())
}

// handleBatch applies every operation in the batch independently, in
// list order, against the current state. The accepted subset is saved
// once and relayed as a single batched message; an all-rejected batch
// produces neither.
func (c *Controller) handleBatch(ctx context.Context, client *hub.Client, data json.RawMessage) {
	var batch model.BatchData
	if err := json.Unmarshal(data, &batch); err != nil || len(batch.Operations) == 0 {
		c.logger.Debug("ignoring invalid batch", "client_id", client.ID())
		return
	}

	lk := c.roomLock(client.RoomID())
	lk.Lock()
	defer lk.Unlock()

	rm := c.registry.Get(ctx, client.RoomID())
	accepted := rm.ApplyBatch(batch.Operations)
	if len(accepted) == 0 {
		return
	}

	c.persistRoom(ctx, client.RoomID())

	c.hub.BroadcastToRoom(model.BatchMessage{
		Type: model.TypeBatch,
		Data: model.BatchData{
			Operations: accepted,
			SenderID:   client.ID(),
		},
	}, client.RoomID(), client.ID())
}

// handleCursor overwrites the sender's cursor unconditionally and
// relays it. Cursors are last-write-wins by arrival order and are
// never persisted.
func (c *Controller) handleCursor(client *hub.Client, data json.RawMessage) {
	c.hub.SetCursor(client.ID(), data)

	c.hub.BroadcastToRoom(model.CursorMessage{
		Type:     model.TypeCursor,
		ClientID: client.ID(),
		Data:     data,
	}, client.RoomID(), client.ID())
}

// handleDelete removes an element regardless of timestamp and relays
// the removal. The delete notice goes out even when the element was
// already absent, matching the delete-always-wins conflict policy.
func (c *Controller) handleDelete(ctx context.Context, client *hub.Client, elementID string) {
	if elementID == "" {
		return
	}

	lk := c.roomLock(client.RoomID())
	lk.Lock()
	defer lk.Unlock()

	rm := c.registry.Get(ctx, client.RoomID())
	if rm.DeleteElement(elementID) {
		c.persistRoom(ctx, client.RoomID())
	}

	c.hub.BroadcastToRoom(model.DeleteMessage{
		Type:      model.TypeDelete,
		ElementID: elementID,
		SenderID:  client.ID(),
	}, client.RoomID(), client.ID())
}

// handleSyncRequest re-sends the full snapshot to the requester only.
func (c *Controller) handleSyncRequest(ctx context.Context, client *hub.Client) {
	lk := c.roomLock(client.RoomID())
	lk.Lock()
	defer lk.Unlock()

	c.sendSync(client.ID(), c.registry.Get(ctx, client.RoomID()))
}

// sendSync delivers the full room snapshot plus room-filtered cursors
// to one client.
func (c *Controller) sendSync(clientID string, rm *room.Room) {
	c.hub.SendTo(clientID, model.SyncMessage{
		Type: model.TypeSync,
		Data: model.SyncData{
			State:   rm.SnapshotState(),
			Cursors: c.hub.CursorsForRoom(rm.ID()),
		},
	})
}

// persistRoom saves the room's current state. Persistence is
// best-effort: a failure is logged and in-memory state stays
// authoritative.
func (c *Controller) persistRoom(ctx context.Context, roomID string) {
	rm := c.registry.Get(ctx, roomID)
	if err := c.store.Save(ctx, roomID, rm.SnapshotState()); err != nil {
		c.logger.Warn("saving room snapshot failed",
			"room_id", roomID, "error", err)
	}
}
