package config

import (
	"os"
	"path/filepath"
)

// Config holds all CLI configuration options.
type Config struct {
	ConnectionsFile string `koanf:"connections_file"`
	Connection      string `koanf:"connection"`
	PageSize        int    `koanf:"page_size"`
	OutputFormat    string `koanf:"output"`
	Verbose         bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultPageSize = 10
	DefaultOutput   = "auto" // auto-detect: TTY=table, non-TTY=csv
)

// DefaultConnectionsFile returns the default connection file location,
// ~/.repsql/connections.json. Falls back to a relative path when the home
// directory cannot be determined.
func DefaultConnectionsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".repsql", "connections.json")
	}
	return filepath.Join(home, ".repsql", "connections.json")
}
