package config

import (
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "sqlite", cfg.Backend.Type)
	assert.Equal(t, 500, cfg.Pasteboard.PollInterval)
	assert.Equal(t, 72, cfg.Pasteboard.PreviewWidth)
	assert.Equal(t, 5432, cfg.Backend.Postgres.Port)
	assert.Equal(t, 6379, cfg.Backend.Redis.Port)
	assert.False(t, cfg.Logging.Debug)
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		configYAML  string
		validator   func(t *testing.T, cfg *Config)
		expectError bool
	}{
		{
			name: "complete config",
			configYAML: `
pasteboard:
  origin: https://editor.example
  poll_interval: 250
  preview_width: 40
backend:
  type: sqlite
  sqlite:
    path: /tmp/pb.db
logging:
  debug: true
  path: /tmp/pb.log
`,
			validator: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://editor.example", cfg.Pasteboard.Origin)
				assert.Equal(t, 250, cfg.Pasteboard.PollInterval)
				assert.Equal(t, 40, cfg.Pasteboard.PreviewWidth)
				assert.Equal(t, "sqlite", cfg.Backend.Type)
				assert.Equal(t, "/tmp/pb.db", cfg.Backend.SQLite.Path)
				assert.True(t, cfg.Logging.Debug)
				assert.Equal(t, "/tmp/pb.log", cfg.Logging.Path)
			},
		},
		{
			name: "minimal config keeps defaults",
			configYAML: `
backend:
  type: redis
`,
			validator: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "redis", cfg.Backend.Type)
				assert.Equal(t, "localhost", cfg.Backend.Redis.Host)
				assert.Equal(t, 6379, cfg.Backend.Redis.Port)
				assert.Equal(t, 500, cfg.Pasteboard.PollInterval)
			},
		},
		{
			name:        "invalid yaml",
			configYAML:  "backend: [type",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfigFile(t, tt.configYAML))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validator(t, cfg)
		})
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PASTEBOARD_BACKEND_TYPE", "postgres")
	t.Setenv("PASTEBOARD_BACKEND_POSTGRES_PORT", "6543")
	t.Setenv("PASTEBOARD_PASTEBOARD_ORIGIN", "https://env.example")

	cfg, err := LoadConfig(writeConfigFile(t, "backend:\n  type: sqlite\n"))
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Backend.Type)
	assert.Equal(t, 6543, cfg.Backend.Postgres.Port)
	assert.Equal(t, "https://env.example", cfg.Pasteboard.Origin)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	const key = "PASTEBOARD_LOGGING_PATH"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=/var/log/pb.log\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/var/log/pb.log", cfg.Logging.Path)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Backend.Type = "redis"
	cfg.Backend.Redis.TTL = 60
	cfg.Pasteboard.Origin = "https://saved.example"
	require.NoError(t, cfg.SaveConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend:\n  type: redis\n")

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "pasteboard")

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
