package backend

import (
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Run("memory by default", func(t *testing.T) {
		store, err := NewStore(Config{})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := NewStore(Config{Type: "sqlite", SQLite: SQLiteConfig{Path: ":memory:"}})
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &SQLStore{}, store)
	})

	t.Run("unsupported type", func(t *testing.T) {
		_, err := NewStore(Config{Type: "floppy"})
		assert.ErrorContains(t, err, "unsupported backend type")
	})

	t.Run("unreachable redis", func(t *testing.T) {
		_, err := NewStore(Config{Type: "redis", Redis: RedisConfig{Host: "127.0.0.1", Port: 1}})
		assert.Error(t, err)
	})

	t.Run("unreachable postgres", func(t *testing.T) {
		_, err := NewStore(Config{Type: "postgres", Postgres: PostgresConfig{
			Host: "127.0.0.1", Port: 1, Database: "pasteboard", Username: "pasteboard",
		}})
		assert.Error(t, err)
	})
}

func TestPostgresDSN(t *testing.T) {
	dsn := postgresDSN(PostgresConfig{Host: "db", Port: 5432, Database: "pb", Username: "u", Password: "p"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=pb sslmode=disable connect_timeout=5", dsn)
}
