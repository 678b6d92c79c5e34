package backend

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	migrations "github.com/inference-gateway/pasteboard/internal/infra/backend/migrations"
	_ "github.com/lib/pq"
)

func postgresDSN(config PostgresConfig) string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=5",
		config.Host, config.Port, config.Username, config.Password, config.Database, sslMode)
}

// NewPostgresStore connects to PostgreSQL and migrates the pasteboard schema
func NewPostgresStore(config PostgresConfig) (*SQLStore, error) {
	db, err := sql.Open("postgres", postgresDSN(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("PostgreSQL connection test failed: %w\n\n"+
			"Failed to connect to PostgreSQL. Verify:\n"+
			"  - PostgreSQL server is running at %s:%d\n"+
			"  - Database '%s' exists\n"+
			"  - User '%s' has proper permissions", err, config.Host, config.Port, config.Database, config.Username)
	}

	store, err := newSQLStore(ctx, db, migrations.Postgres)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}
