package backend

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	migrations "github.com/inference-gateway/pasteboard/internal/infra/backend/migrations"
	_ "modernc.org/sqlite"
)

// NewSQLiteStore opens the SQLite database at config.Path and migrates it
func NewSQLiteStore(config SQLiteConfig) (*SQLStore, error) {
	dsn := ":memory:"
	if config.Path != "" && config.Path != ":memory:" {
		dir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		dsn = config.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if dsn != ":memory:" {
		db.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := newSQLStore(ctx, db, migrations.SQLite)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}
