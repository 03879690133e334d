package store

import (
	"context"

	"github.com/mfriesen/boardsync/internal/model"
)

// Store reads and writes room snapshots keyed by room ID.
type Store interface {
	// Load returns the persisted state for a room. A missing snapshot is
	// not an error: the result is an empty state. On a corrupt or
	// unreadable snapshot, Load returns an empty state AND the error, so
	// the caller can log it and start the room empty.
	Load(ctx context.Context, roomID string) (model.RoomState, error)

	// Save overwrites the room's snapshot with the given state. The
	// write is atomic from a reader's perspective.
	Save(ctx context.Context, roomID string, state model.RoomState) error

	// Exists reports whether a snapshot has ever been saved for the room.
	Exists(ctx context.Context, roomID string) (bool, error)

	// Ping verifies the backend is reachable and writable.
	Ping(ctx context.Context) error
}
