package backend

// Config selects and configures the backend holding the pasteboard media
type Config struct {
	// Type is one of memory, system, sqlite, postgres, redis
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	SQLite   SQLiteConfig   `json:"sqlite,omitempty" yaml:"sqlite,omitempty" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres,omitempty" yaml:"postgres,omitempty" mapstructure:"postgres"`
	Redis    RedisConfig    `json:"redis,omitempty" yaml:"redis,omitempty" mapstructure:"redis"`
}

// SQLiteConfig contains SQLite-specific configuration
type SQLiteConfig struct {
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// PostgresConfig contains Postgres-specific configuration
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" mapstructure:"port"`
	Database string `json:"database" yaml:"database" mapstructure:"database"`
	Username string `json:"username" yaml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode" mapstructure:"ssl_mode"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Host     string `json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" mapstructure:"port"`
	Database int    `json:"database" yaml:"database" mapstructure:"database"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	Username string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	TTL      int    `json:"ttl,omitempty" yaml:"ttl,omitempty" mapstructure:"ttl"` // TTL in seconds, 0 means no expiration
}
