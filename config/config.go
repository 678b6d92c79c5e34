package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	backend "github.com/inference-gateway/pasteboard/internal/infra/backend"
	logger "github.com/inference-gateway/pasteboard/internal/logger"
)

// EnvPrefix prefixes environment overrides, e.g. PASTEBOARD_BACKEND_TYPE
const EnvPrefix = "PASTEBOARD"

// Config represents the pbctl configuration
type Config struct {
	Pasteboard PasteboardConfig `yaml:"pasteboard" mapstructure:"pasteboard"`
	Backend    backend.Config   `yaml:"backend" mapstructure:"backend"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// PasteboardConfig contains settings for reads and writes made by pbctl
type PasteboardConfig struct {
	// Origin scopes custom data written and read by pbctl
	Origin string `yaml:"origin" mapstructure:"origin"`
	// PollInterval is the watch interval in milliseconds
	PollInterval int `yaml:"poll_interval" mapstructure:"poll_interval"`
	// PreviewWidth truncates payload previews, 0 disables truncation
	PreviewWidth int `yaml:"preview_width" mapstructure:"preview_width"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Debug bool   `yaml:"debug" mapstructure:"debug"`
	Path  string `yaml:"path" mapstructure:"path"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Pasteboard: PasteboardConfig{
			Origin:       "",
			PollInterval: 500,
			PreviewWidth: 72,
		},
		Backend: backend.Config{
			Type: "sqlite",
			SQLite: backend.SQLiteConfig{
				Path: ".pasteboard/pasteboard.db",
			},
			Postgres: backend.PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "pasteboard",
				Username: "pasteboard",
				SSLMode:  "disable",
			},
			Redis: backend.RedisConfig{
				Host: "localhost",
				Port: 6379,
			},
		},
		Logging: LoggingConfig{
			Debug: false,
			Path:  "",
		},
	}
}

// setDefaults registers every key so environment overrides reach Unmarshal
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("pasteboard.origin", cfg.Pasteboard.Origin)
	v.SetDefault("pasteboard.poll_interval", cfg.Pasteboard.PollInterval)
	v.SetDefault("pasteboard.preview_width", cfg.Pasteboard.PreviewWidth)

	v.SetDefault("backend.type", cfg.Backend.Type)
	v.SetDefault("backend.sqlite.path", cfg.Backend.SQLite.Path)
	v.SetDefault("backend.postgres.host", cfg.Backend.Postgres.Host)
	v.SetDefault("backend.postgres.port", cfg.Backend.Postgres.Port)
	v.SetDefault("backend.postgres.database", cfg.Backend.Postgres.Database)
	v.SetDefault("backend.postgres.username", cfg.Backend.Postgres.Username)
	v.SetDefault("backend.postgres.password", cfg.Backend.Postgres.Password)
	v.SetDefault("backend.postgres.ssl_mode", cfg.Backend.Postgres.SSLMode)
	v.SetDefault("backend.redis.host", cfg.Backend.Redis.Host)
	v.SetDefault("backend.redis.port", cfg.Backend.Redis.Port)
	v.SetDefault("backend.redis.database", cfg.Backend.Redis.Database)
	v.SetDefault("backend.redis.password", cfg.Backend.Redis.Password)
	v.SetDefault("backend.redis.username", cfg.Backend.Redis.Username)
	v.SetDefault("backend.redis.ttl", cfg.Backend.Redis.TTL)

	v.SetDefault("logging.debug", cfg.Logging.Debug)
	v.SetDefault("logging.path", cfg.Logging.Path)
}

// LoadConfig loads configuration from file, a sibling .env file and
// PASTEBOARD_ environment variables. A missing file yields the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath()
		logger.Debug("Using default config path", "path", configPath)
	} else {
		logger.Debug("Using custom config path", "path", configPath)
	}

	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := gotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			logger.Error("Failed to read config file", "path", configPath, "error", err)
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		logger.Debug("Config file not found, using default configuration", "path", configPath)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		logger.Error("Failed to parse config file", "path", configPath, "error", err)
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	logger.Debug("Successfully loaded config", "path", configPath, "backend", cfg.Backend.Type)
	return cfg, nil
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath()
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close YAML encoder: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		logger.Error("Failed to write config file", "path", configPath, "error", err)
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logger.Debug("Successfully saved config", "path", configPath)
	return nil
}

// DefaultConfigPath returns .pasteboard/config.yaml under the working directory
func DefaultConfigPath() string {
	wd, err := os.Getwd()
	if err != nil {
		return ".pasteboard/config.yaml"
	}
	return filepath.Join(wd, ".pasteboard/config.yaml")
}
