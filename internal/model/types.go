package model

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrMissingID indicates an element payload without an "id" field.
var ErrMissingID = errors.New("element has no id")

// -----------------------------------------------------------------------------
// Domain Types
// -----------------------------------------------------------------------------

// Element is a single addressable drawing primitive. The server keeps the
// client's full JSON object untouched; ID and Timestamp are extracted copies
// used for routing and conflict resolution.
type Element struct {
	ID        string          // Unique element identifier
	Timestamp float64         // Conflict-resolution key (ms since epoch)
	Raw       json.RawMessage // Full payload as received
}

// UnmarshalJSON decodes an element, retaining the raw payload.
func (e *Element) UnmarshalJSON(data []byte) error {
	var fields struct {
		ID        string  `json:"id"`
		Timestamp float64 `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	e.ID = fields.ID
	e.Timestamp = fields.Timestamp
	e.Raw = append(e.Raw[:0], data...)
	return nil
}

// MarshalJSON emits the original payload unchanged.
func (e Element) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}
	return json.Marshal(struct {
		ID        string  `json:"id"`
		Timestamp float64 `json:"timestamp"`
	}{e.ID, e.Timestamp})
}

// RoomState maps element ID to Element for one room.
type RoomState map[string]Element

// Clone returns an independent copy of the state mapping.
func (s RoomState) Clone() RoomState {
	out := make(RoomState, len(s))
	for id, el := range s {
		out[id] = el
	}
	return out
}

// RoomSnapshot is the durable representation of one room, overwritten
// wholesale on every save.
type RoomSnapshot struct {
	RoomID      string    `json:"room_id"`
	State       RoomState `json:"whiteboard_state"`
	LastUpdated time.Time `json:"last_updated"`
}

// -----------------------------------------------------------------------------
// Wire Protocol
// -----------------------------------------------------------------------------

// Message type identifiers exchanged over the WebSocket connection.
const (
	TypeSync       = "sync"
	TypeOperation  = "operation"
	TypeBatch      = "batch_operations"
	TypeCursor     = "cursor"
	TypeDelete     = "delete"
	TypeSyncReq    = "sync_request"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeUserJoined = "user_joined"
	TypeUserLeft   = "user_left"
)

// Envelope is the inbound message frame. Data is interpreted per Type.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	ElementID string          `json:"elementId,omitempty"`
}

// BatchData is the Data payload of a batch_operations message.
type BatchData struct {
	Operations []Element `json:"operations"`
	SenderID   string    `json:"senderId,omitempty"`
}

// SyncData is the Data payload of a sync message: the full room state plus
// the cursors of clients currently in the room.
type SyncData struct {
	State   RoomState                  `json:"state"`
	Cursors map[string]json.RawMessage `json:"cursors"`
}

// SyncMessage is the full snapshot sent on connect or sync_request.
type SyncMessage struct {
	Type string   `json:"type"`
	Data SyncData `json:"data"`
}

// OperationMessage relays one accepted operation to other room members.
type OperationMessage struct {
	Type     string  `json:"type"`
	Data     Element `json:"data"`
	SenderID string  `json:"senderId"`
}

// BatchMessage relays the accepted subset of a batch as one message.
type BatchMessage struct {
	Type string    `json:"type"`
	Data BatchData `json:"data"`
}

// CursorMessage relays a presence cursor update.
type CursorMessage struct {
	Type     string          `json:"type"`
	ClientID string          `json:"clientId"`
	Data     json.RawMessage `json:"data"`
}

// DeleteMessage relays an element removal.
type DeleteMessage struct {
	Type      string `json:"type"`
	ElementID string `json:"elementId"`
	SenderID  string `json:"senderId,omitempty"`
}

// PresenceMessage announces a client joining or leaving a room.
type PresenceMessage struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

// ControlMessage carries a bare type, used for ping/pong heartbeats.
type ControlMessage struct {
	Type string `json:"type"`
}
