package room

import (
	"sync"

	"github.com/mfriesen/boardsync/internal/model"
)

// Room holds one room's live element state behind its own lock.
type Room struct {
	id string

	loadOnce sync.Once

	mu       sync.Mutex
	elements model.RoomState
}

// ID returns the room identifier.
func (r *Room) ID() string {
	return r.id
}

// ApplyOperation merges one element under the last-write-wins rule.
// The operation is accepted iff the element is absent or carries a
// strictly greater timestamp than the stored one; ties and older
// timestamps are rejected as a no-op. Returns whether it was accepted.
func (r *Room) ApplyOperation(el model.Element) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.applyLocked(el)
}

// ApplyBatch merges each element in list order against the current
// state, including state already mutated by earlier elements of the
// same batch. Returns the accepted subset in order.
func (r *Room) ApplyBatch(els []model.Element) []model.Element {
	r.mu.Lock()
	defer r.mu.Unlock()

	var accepted []model.Element
	for _, el := range els {
		if r.applyLocked(el) {
			accepted = append(accepted, el)
		}
	}
	return accepted
}

// applyLocked holds the LWW transition rule. Caller must hold r.mu.
func (r *Room) applyLocked(el model.Element) bool {
	if el.ID == "" {
		return false
	}
	existing, ok := r.elements[el.ID]
	if ok && el.Timestamp <= existing.Timestamp {
		return false
	}
	r.elements[el.ID] = el
	return true
}

// DeleteElement removes an element regardless of timestamp. Deletes are
// not LWW-gated: a delete always wins against earlier creates and
// updates. Returns whether the element was present.
func (r *Room) DeleteElement(elementID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.elements[elementID]; !ok {
		return false
	}
	delete(r.elements, elementID)
	return true
}

// SnapshotState returns a copy of the current element mapping for sync
// messages and persistence. The live map never leaves the room.
func (r *Room) SnapshotState() model.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elements.Clone()
}

// Len returns the number of elements in the room.
func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.elements)
}

// seed installs freshly loaded state. Used once, before the room is
// visible to any handler.
func (r *Room) seed(state model.RoomState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state == nil {
		state = model.RoomState{}
	}
	r.elements = state
}
