package room

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mfriesen/boardsync/internal/model"
	"github.com/mfriesen/boardsync/internal/store"
)

// Registry manages the room ID to Room mapping.
type Registry struct {
	store  store.Store
	logger *slog.Logger

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry creates a Room Registry backed by the given snapshot store.
func NewRegistry(st store.Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  st,
		logger: logger,
		rooms:  make(map[string]*Room),
	}
}

// Get returns the room, loading its snapshot on first access. A load
// failure is logged and the room starts empty; it is never fatal.
// Idempotent: concurrent callers share one load.
func (g *Registry) Get(ctx context.Context, roomID string) *Room {
	g.mu.Lock()
	rm, ok := g.rooms[roomID]
	if !ok {
		rm = &Room{id: roomID}
		g.rooms[roomID] = rm
	}
	g.mu.Unlock()

	rm.loadOnce.Do(func() {
		state, err := g.store.Load(ctx, roomID)
		if err != nil {
			g.logger.Warn("loading room snapshot failed, starting empty",
				"room_id", roomID, "error", err)
		}
		rm.seed(state)
		g.logger.Info("room loaded", "room_id", roomID, "elements", rm.Len())
	})

	return rm
}

// Seed installs an already-loaded room without touching the store. Used
// by the admin create path, which writes the empty snapshot itself.
func (g *Registry) Seed(roomID string, state model.RoomState) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	rm, ok := g.rooms[roomID]
	if !ok {
		rm = &Room{id: roomID}
		g.rooms[roomID] = rm
	}
	rm.loadOnce.Do(func() { rm.seed(state) })
	return rm
}

// Len returns the number of rooms currently resident in memory.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
