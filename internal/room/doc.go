// Package room implements the Room Registry component.
//
// The Room Registry:
//   - Owns the in-memory element state for every active room
//   - Lazily loads each room from the snapshot store on first access
//   - Applies the last-write-wins merge rule to incoming operations
//   - Guards each room with its own mutex; cross-room operations
//     never contend
//
// A room, once loaded, lives for the process lifetime. The registry is
// the sole writer of room state; callers receive copies, never the
// live mapping.
package room
