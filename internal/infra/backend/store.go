package backend

import (
	"fmt"

	clipboard "github.com/inference-gateway/pasteboard/internal/clipboard"
	domain "github.com/inference-gateway/pasteboard/internal/domain"
)

// GeneralName is the medium the system store maps to the desktop clipboard
const GeneralName = "general"

// Store opens named media that share one underlying resource
type Store interface {
	Backend(name string) (domain.Backend, error)
	Close() error
}

// NewStore creates a store based on the provided configuration
func NewStore(config Config) (Store, error) {
	switch config.Type {
	case "", "memory":
		return NewMemoryStore(), nil
	case "system":
		if err := clipboard.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize system clipboard: %w", err)
		}
		return NewSystemStore(GeneralName, clipboard.Native{}), nil
	case "sqlite":
		return NewSQLiteStore(config.SQLite)
	case "postgres":
		return NewPostgresStore(config.Postgres)
	case "redis":
		return NewRedisStore(config.Redis)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
