// Package database provides PostgreSQL connection pool management for the
// postgres snapshot backend. Room snapshots live in a single table, one
// row per room, overwritten wholesale on every save.
package database
