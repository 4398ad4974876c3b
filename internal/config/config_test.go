package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "padsync.db", cfg.DB.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
	require.Zero(t, cfg.Presence.ReapInterval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PADSYNC_SERVER_PORT", "9090")
	t.Setenv("PADSYNC_TRANSPORT_MODE", "stdio")
	t.Setenv("PADSYNC_AUTH_ENABLED", "true")
	t.Setenv("PADSYNC_PRESENCE_REAP_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, 5*time.Minute, cfg.Presence.ReapInterval)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\ndb:\n  path: /tmp/x.db\n"), 0o644))

	t.Setenv("PADSYNC_CONFIG_PATH", path)
	t.Setenv("PADSYNC_SERVER_PORT", "7001")

	cfg, err := Load()
	require.NoError(t, err)
	// Env wins over file.
	require.Equal(t, 7001, cfg.Server.Port)
	require.Equal(t, "/tmp/x.db", cfg.DB.Path)
}

func TestLoad_InvalidTransportMode(t *testing.T) {
	t.Setenv("PADSYNC_TRANSPORT_MODE", "carrier-pigeon")

	_, err := Load()
	require.Error(t, err)
}
