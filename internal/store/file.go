package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mfriesen/boardsync/internal/model"
)

// FileStore persists one room_<id>.json file per room under a data directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// roomFile returns the snapshot path for a room. Room IDs come from URL
// paths, so the ID is escaped to keep the file inside the data directory.
func (s *FileStore) roomFile(roomID string) string {
	return filepath.Join(s.dir, "room_"+url.PathEscape(roomID)+".json")
}

// Load reads the room's snapshot file.
func (s *FileStore) Load(_ context.Context, roomID string) (model.RoomState, error) {
	data, err := os.ReadFile(s.roomFile(roomID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.RoomState{}, nil
		}
		return model.RoomState{}, fmt.Errorf("read snapshot for room %s: %w", roomID, err)
	}

	var snap model.RoomSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.RoomState{}, fmt.Errorf("decode snapshot for room %s: %w", roomID, err)
	}
	if snap.State == nil {
		snap.State = model.RoomState{}
	}
	return snap.State, nil
}

// Save writes the snapshot to a temp file and renames it into place, so a
// concurrent reader never observes a half-written snapshot.
func (s *FileStore) Save(_ context.Context, roomID string, state model.RoomState) error {
	snap := model.RoomSnapshot{
		RoomID:      roomID,
		State:       state,
		LastUpdated: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot for room %s: %w", roomID, err)
	}

	target := s.roomFile(roomID)
	tmp, err := os.CreateTemp(s.dir, "room_*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot for room %s: %w", roomID, err)
	}

	s.logger.Debug("saved snapshot", "room_id", roomID, "elements", len(state))
	return nil
}

// Exists reports whether a snapshot file is present for the room.
func (s *FileStore) Exists(_ context.Context, roomID string) (bool, error) {
	_, err := os.Stat(s.roomFile(roomID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat snapshot for room %s: %w", roomID, err)
}

// Ping verifies the data directory is still present.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data path %s is not a directory", s.dir)
	}
	return nil
}
