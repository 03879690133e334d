// Package config loads and validates the server's YAML configuration.
//
// Config files support ${VAR} environment variable expansion. Optional
// fields fall back to the defaults in defaults.go; Validate rejects
// configurations that cannot produce a working server.
package config
