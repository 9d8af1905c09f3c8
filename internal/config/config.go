// Package config loads and stores the daemon configuration: a JSON file
// in the user config directory with environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avhost/playerd/internal/consts"
)

// SocketConfig configures the IPC control socket.
type SocketConfig struct {
	// Path is the socket path. A leading ~ expands to the home
	// directory; on Linux a leading @ selects the abstract namespace.
	Path string `json:"path"`
	// Enabled turns the IPC subsystem on.
	Enabled bool `json:"enabled"`
	// Permissions is an octal file mode for the socket file, e.g. "0600".
	Permissions string `json:"permissions"`
	// MaxConnections caps concurrent clients. 0 keeps the historical
	// unbounded behavior.
	MaxConnections int `json:"max_connections"`
	// MaxLineBytes caps one request line. 0 disables the cap.
	MaxLineBytes int `json:"max_line_bytes"`
}

// GetSocketPath returns the configured socket path.
func (s SocketConfig) GetSocketPath() string {
	return s.Path
}

// Config is the full daemon configuration.
type Config struct {
	LogLevel string       `json:"log_level"`
	LogPath  string       `json:"log_path"`
	Socket   SocketConfig `json:"socket"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Socket: SocketConfig{
			Path:         "~/.playerd.sock",
			Enabled:      true,
			Permissions:  "0600",
			MaxLineBytes: consts.DefaultMaxLineBytes,
		},
	}
}

// GetConfigPath returns the default config file location.
func GetConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "playerd.json"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "playerd", "config.json")
}

// Load reads the config file at path, layering it over the defaults and
// then applying environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv lets environment variables override file values.
func (c *Config) applyEnv() {
	if v := os.Getenv("PLAYERD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PLAYERD_LOG_PATH"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("PLAYERD_SOCKET"); v != "" {
		c.Socket.Path = v
	}
}

// Save writes the config as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// ParseFileMode parses an octal file mode string, defaulting to 0600.
func ParseFileMode(modeStr string) os.FileMode {
	var mode uint64
	if _, err := fmt.Sscanf(modeStr, "%o", &mode); err != nil {
		return 0600
	}
	return os.FileMode(mode)
}
