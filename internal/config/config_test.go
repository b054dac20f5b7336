package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectorgov-mcp.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), false)
	require.NoError(t, err)

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "balanced", cfg.Search.Mode)
	assert.Equal(t, 5, cfg.Search.TopK)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[api]
key = "vg_from_file"
base_url = "https://staging.vectorgov.io/api/v1"
timeout_seconds = 10

[search]
top_k = 8
mode = "precise"

[server]
transport = "sse"
addr = ":9000"
log_level = "debug"
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "vg_from_file", cfg.API.Key)
	assert.Equal(t, "https://staging.vectorgov.io/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 8, cfg.Search.TopK)
	assert.Equal(t, "precise", cfg.Search.Mode)
	assert.Equal(t, "sse", cfg.Server.Transport)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	// Unset sections keep their defaults.
	assert.Equal(t, 3, cfg.API.MaxRetries)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errIs   string
	}{
		{name: "bad transport", content: "[server]\ntransport = \"websocket\"\n", errIs: "invalid transport"},
		{name: "bad mode", content: "[search]\nmode = \"turbo\"\n", errIs: "invalid search mode"},
		{name: "bad top_k", content: "[search]\ntop_k = 0\n", errIs: "top_k must be between"},
		{name: "bad TOML", content: "[search\n", errIs: "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errIs)
		})
	}
}
