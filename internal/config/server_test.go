package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7430", cfg.ListenAddr)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout())
}

func TestLoadServerConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listenAddr: ":8080"
databasePath: /var/lib/side/profiles.db
logLevel: debug
readTimeoutSec: 30
`), 0o644))

	cfg, err := LoadServerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/side/profiles.db", cfg.DatabasePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout())
	// Untouched keys keep defaults.
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout())
}

func TestLoadServerConfigMissingFile(t *testing.T) {
	_, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadServerConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: [broken"), 0o644))
	_, err := LoadServerConfig(path)
	assert.Error(t, err)
}
