package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mfriesen/boardsync/internal/model"
)

// PostgresStore persists one room_snapshots row per room, state as JSONB.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(db *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, logger: logger}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS room_snapshots (
			room_id      TEXT PRIMARY KEY,
			state        JSONB NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create room_snapshots table: %w", err)
	}
	return nil
}

// Load reads the room's snapshot row.
func (s *PostgresStore) Load(ctx context.Context, roomID string) (model.RoomState, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT state FROM room_snapshots WHERE room_id = $1`, roomID,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RoomState{}, nil
		}
		return model.RoomState{}, fmt.Errorf("query snapshot for room %s: %w", roomID, err)
	}

	var state model.RoomState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.RoomState{}, fmt.Errorf("decode snapshot for room %s: %w", roomID, err)
	}
	if state == nil {
		state = model.RoomState{}
	}
	return state, nil
}

// Save upserts the room's snapshot row. The row swap is atomic, so readers
// never observe a partial state.
func (s *PostgresStore) Save(ctx context.Context, roomID string, state model.RoomState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot for room %s: %w", roomID, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO room_snapshots (room_id, state, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (room_id) DO UPDATE
		SET state = EXCLUDED.state, last_updated = EXCLUDED.last_updated
	`, roomID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert snapshot for room %s: %w", roomID, err)
	}

	s.logger.Debug("saved snapshot", "room_id", roomID, "elements", len(state))
	return nil
}

// Exists reports whether a snapshot row is present for the room.
func (s *PostgresStore) Exists(ctx context.Context, roomID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM room_snapshots WHERE room_id = $1)`, roomID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check snapshot for room %s: %w", roomID, err)
	}
	return exists, nil
}

// Ping verifies the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
