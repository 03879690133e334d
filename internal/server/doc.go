// Package server exposes the HTTP surface: WebSocket upgrades at
// /ws/{roomID}/{clientID}, the room administration API, health checks,
// and an optional static frontend bundle.
package server
