// Package session implements the Operation Processor and the
// per-connection lifecycle controller.
//
// Inbound messages are dispatched by declared type: operation apply,
// batch apply, cursor update, delete, sync request, heartbeat. All
// handling of a message runs to completion (merge, persist, broadcast)
// under a per-room lock before the next message for that room starts,
// which keeps the room-wide event order consistent as observed by the
// server.
//
// Faults degrade to logged no-ops: persistence failures never reach
// clients, malformed messages are ignored, and a broken recipient never
// affects the sender or other recipients.
package session
