// Package store implements the snapshot persistence layer.
//
// A snapshot is the full durable serialization of one room's element
// mapping, overwritten wholesale on every save. Two backends exist:
//   - FileStore: one JSON file per room under a data directory
//   - PostgresStore: one row per room in the room_snapshots table
//
// Persistence is best-effort: a failed load or save never blocks
// in-memory operation. Loads return an empty state together with the
// error so callers can log and continue.
package store
