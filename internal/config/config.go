package config

import "time"

// Backend identifiers for snapshot storage.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// ServerConfig is the root configuration for a boardsync server instance.
type ServerConfig struct {
	Instance  InstanceConfig  `yaml:"instance"`
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Websocket WebsocketConfig `yaml:"websocket"`
}

// InstanceConfig identifies this server instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// HTTPConfig holds the listener and HTTP surface settings.
type HTTPConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	StaticDir       string        `yaml:"static_dir"`       // Optional frontend bundle to serve at /
	AllowedOrigins  []string      `yaml:"allowed_origins"`  // Origins accepted on upgrade; empty = any
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // Grace period for in-flight requests
}

// StorageConfig selects and configures the snapshot backend.
type StorageConfig struct {
	Backend  string   `yaml:"backend"` // "file" or "postgres"
	DataDir  string   `yaml:"data_dir"`
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// WebsocketConfig holds per-connection transport settings.
type WebsocketConfig struct {
	PingInterval   time.Duration `yaml:"ping_interval"`    // How often the server pings each client
	ReadTimeout    time.Duration `yaml:"read_timeout"`     // Max silence before a connection is considered dead
	WriteTimeout   time.Duration `yaml:"write_timeout"`    // Deadline for a single outbound write
	MaxMessageSize int64         `yaml:"max_message_size"` // Inbound message size limit in bytes
	SendBuffer     int           `yaml:"send_buffer"`      // Outbound queue depth per connection
}
