package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mfriesen/boardsync/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return s
}

func element(t *testing.T, raw string) model.Element {
	t.Helper()
	var el model.Element
	if err := json.Unmarshal([]byte(raw), &el); err != nil {
		t.Fatalf("bad element literal: %v", err)
	}
	return el
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	state := model.RoomState{
		"e1": element(t, `{"id":"e1","timestamp":100,"kind":"rect"}`),
	}
	if err := s.Save(ctx, "r1", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := s.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d elements, want 1", len(loaded))
	}
	if loaded["e1"].Timestamp != 100 {
		t.Errorf("e1.Timestamp = %v, want 100", loaded["e1"].Timestamp)
	}

	// Opaque payload fields survive persistence.
	var payload map[string]any
	if err := json.Unmarshal(loaded["e1"].Raw, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["kind"] != "rect" {
		t.Errorf("kind = %v, want rect", payload["kind"])
	}
}

func TestFileStoreMissingSnapshotIsEmpty(t *testing.T) {
	s := newTestStore(t)

	state, err := s.Load(context.Background(), "never-saved")
	if err != nil {
		t.Fatalf("Load of missing snapshot returned error: %v", err)
	}
	if len(state) != 0 {
		t.Errorf("loaded %d elements, want 0", len(state))
	}
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	s := newTestStore(t)

	path := s.roomFile("broken")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	state, err := s.Load(context.Background(), "broken")
	if err == nil {
		t.Error("Load of corrupt snapshot returned no error")
	}
	if state == nil || len(state) != 0 {
		t.Errorf("corrupt snapshot must yield empty state, got %v", state)
	}
}

func TestFileStoreOverwritesWholesale(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.RoomState{
		"e1": element(t, `{"id":"e1","timestamp":100}`),
		"e2": element(t, `{"id":"e2","timestamp":100}`),
	}
	if err := s.Save(ctx, "r1", first); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := model.RoomState{
		"e3": element(t, `{"id":"e3","timestamp":200}`),
	}
	if err := s.Save(ctx, "r1", second); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	loaded, err := s.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("loaded %d elements, want 1", len(loaded))
	}
	if _, ok := loaded["e1"]; ok {
		t.Error("e1 survived a wholesale overwrite")
	}
}

func TestFileStoreExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "r1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("Exists = true before any save")
	}

	if err := s.Save(ctx, "r1", model.RoomState{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ok, err = s.Exists(ctx, "r1")
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("Exists = false after save")
	}
}

func TestFileStoreSnapshotLayout(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	state := model.RoomState{"e1": element(t, `{"id":"e1","timestamp":5}`)}
	if err := s.Save(ctx, "r1", state); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(s.roomFile("r1"))
	if err != nil {
		t.Fatalf("read snapshot file: %v", err)
	}

	var snap map[string]json.RawMessage
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("decode snapshot file: %v", err)
	}
	for _, key := range []string{"room_id", "whiteboard_state", "last_updated"} {
		if _, ok := snap[key]; !ok {
			t.Errorf("snapshot missing %q key", key)
		}
	}
}

func TestFileStoreEscapesRoomID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	roomID := "../escape"
	if err := s.Save(ctx, roomID, model.RoomState{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The snapshot must land inside the data directory.
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		t.Fatalf("read data dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("data dir has %d entries, want 1", len(entries))
	}
	if filepath.Dir(s.roomFile(roomID)) != s.dir {
		t.Errorf("snapshot path %q escapes data dir", s.roomFile(roomID))
	}
}
