package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultShutdownTimeout = 10 * time.Second
	DefaultBackend         = BackendFile
	DefaultDataDir         = "./whiteboard_data"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultPingInterval    = 30 * time.Second
	DefaultReadTimeout     = 60 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultMaxMessageSize  = 1 << 20 // 1 MiB; element payloads carry full shape data
	DefaultSendBuffer      = 256
	DefaultInstanceID      = "boardsync"
)

func (c *ServerConfig) applyDefaults() {
	// Instance defaults
	if c.Instance.ID == "" {
		c.Instance.ID = DefaultInstanceID
	}

	// HTTP defaults
	if c.HTTP.Host == "" {
		c.HTTP.Host = DefaultHost
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultPort
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Storage defaults
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = DefaultDataDir
	}
	applyDBDefaults(&c.Storage.Postgres)

	// Websocket defaults
	if c.Websocket.PingInterval == 0 {
		c.Websocket.PingInterval = DefaultPingInterval
	}
	if c.Websocket.ReadTimeout == 0 {
		c.Websocket.ReadTimeout = DefaultReadTimeout
	}
	if c.Websocket.WriteTimeout == 0 {
		c.Websocket.WriteTimeout = DefaultWriteTimeout
	}
	if c.Websocket.MaxMessageSize == 0 {
		c.Websocket.MaxMessageSize = DefaultMaxMessageSize
	}
	if c.Websocket.SendBuffer == 0 {
		c.Websocket.SendBuffer = DefaultSendBuffer
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
