package config

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"
)

// DefaultDashboardURL is where `side auth` sends users and what `side
// doctor` probes.
const DefaultDashboardURL = "https://sidelith.com/dashboard"

// ServerConfig configures the key issuance daemon.
type ServerConfig struct {
	ListenAddr   string `json:"listenAddr"`
	DatabasePath string `json:"databasePath"`
	LogLevel     string `json:"logLevel"`

	ReadTimeoutSec  int `json:"readTimeoutSec"`
	WriteTimeoutSec int `json:"writeTimeoutSec"`
}

// DefaultServerConfig returns the config used when no file is given.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr:      "127.0.0.1:7430",
		DatabasePath:    "side.db",
		LogLevel:        "info",
		ReadTimeoutSec:  10,
		WriteTimeoutSec: 10,
	}
}

// LoadServerConfig reads a YAML config file. Missing keys keep their
// defaults; path == "" returns the defaults unchanged.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSec) * time.Second
}

func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSec) * time.Second
}
