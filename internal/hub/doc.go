// Package hub implements the Connection Directory and Broadcast Engine.
//
// The hub:
//   - Maps client IDs to connection records (outbound queue + room)
//   - Delivers messages to room members, excluding the sender
//   - Tracks ephemeral cursor state, filtered by room for delivery
//
// Delivery is best-effort and at-most-once per registered recipient.
// A recipient whose outbound queue is full is treated as an imminent
// disconnect: its transport is closed and the failure never propagates
// to other recipients or to the sender.
package hub
