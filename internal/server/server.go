package server

import (
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/mfriesen/boardsync/internal/config"
	"github.com/mfriesen/boardsync/internal/hub"
	"github.com/mfriesen/boardsync/internal/room"
	"github.com/mfriesen/boardsync/internal/session"
	"github.com/mfriesen/boardsync/internal/store"
)

// Server bundles the HTTP surface with the sync engine behind it.
type Server struct {
	cfg    *config.ServerConfig
	logger *slog.Logger

	store    store.Store
	registry *room.Registry
	hub      *hub.Hub
	sessions *session.Controller

	upgrader       websocket.Upgrader
	allowedOrigins map[string]struct{}
	allowAll       bool
}

// New wires the registry, hub, and session controller onto the given
// snapshot store.
func New(cfg *config.ServerConfig, st store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	h := hub.New(logger)
	reg := room.NewRegistry(st, logger)

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		registry: reg,
		hub:      h,
		sessions: session.NewController(reg, st, h, logger),
	}
	s.allowedOrigins, s.allowAll = normalizeOrigins(cfg.HTTP.AllowedOrigins)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Hub returns the connection directory, for health reporting.
func (s *Server) Hub() *hub.Hub { return s.hub }

// Registry returns the room registry, for health reporting.
func (s *Server) Registry() *room.Registry { return s.registry }
