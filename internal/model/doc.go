// Package model defines shared data types used across the boardsync server.
//
// Conventions:
//   - Element payloads are opaque: the server stores and relays the raw JSON
//     object wholesale and only interprets the "id" and "timestamp" fields.
//   - Timestamps: float64 milliseconds since Unix epoch (clients send
//     Date.now() style values); used only for last-write-wins comparison.
//   - IDs: string for elements, rooms, and clients.
package model
