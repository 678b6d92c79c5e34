package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Dialect names the SQL flavour a runner speaks
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's form
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migration is one versioned schema step
type Migration struct {
	// Version orders migrations ("001", "002", ...)
	Version     string
	Description string
	UpSQL       string
	// DownSQL rolls the step back (optional)
	DownSQL string
}

// MigrationStatus reports whether a known migration has been applied
type MigrationStatus struct {
	Version     string
	Description string
	Applied     bool
}

// MigrationRunner applies migrations and records them in schema_migrations
type MigrationRunner struct {
	db      *sql.DB
	dialect Dialect
}

// NewMigrationRunner creates a runner for db
func NewMigrationRunner(db *sql.DB, dialect Dialect) *MigrationRunner {
	return &MigrationRunner{
		db:      db,
		dialect: dialect,
	}
}

// For returns the pasteboard schema migrations for dialect
func For(dialect Dialect) ([]Migration, error) {
	switch dialect {
	case SQLite:
		return GetSQLiteMigrations(), nil
	case Postgres:
		return GetPostgresMigrations(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

// EnsureMigrationTable creates the tracking table if it does not exist
func (r *MigrationRunner) EnsureMigrationTable(ctx context.Context) error {
	var createSQL string

	switch r.dialect {
	case SQLite:
		createSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		);
		`
	case Postgres:
		createSQL = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		`
	default:
		return fmt.Errorf("unsupported dialect: %s", r.dialect)
	}

	if _, err := r.db.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns the set of applied versions
func (r *MigrationRunner) GetAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ApplyMigration runs one migration and records it in the same transaction
func (r *MigrationRunner) ApplyMigration(ctx context.Context, migration Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, migration.UpSQL); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
	}

	recordSQL := r.dialect.Rebind("INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)")
	if _, err := tx.ExecContext(ctx, recordSQL, migration.Version, migration.Description, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", migration.Version, err)
	}

	return nil
}

// ApplyMigrations applies every pending migration in version order and
// returns how many ran
func (r *MigrationRunner) ApplyMigrations(ctx context.Context, migrations []Migration) (int, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return 0, err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	pending := append([]Migration(nil), migrations...)
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})

	appliedCount := 0
	for _, migration := range pending {
		if applied[migration.Version] {
			continue
		}

		if err := r.ApplyMigration(ctx, migration); err != nil {
			return appliedCount, fmt.Errorf("migration %s failed: %w", migration.Version, err)
		}

		appliedCount++
	}

	return appliedCount, nil
}

// GetMigrationStatus reports each known migration and whether it is applied
func (r *MigrationRunner) GetMigrationStatus(ctx context.Context, availableMigrations []Migration) ([]MigrationStatus, error) {
	if err := r.EnsureMigrationTable(ctx); err != nil {
		return nil, err
	}

	applied, err := r.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	status := make([]MigrationStatus, 0, len(availableMigrations))
	for _, migration := range availableMigrations {
		status = append(status, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     applied[migration.Version],
		})
	}

	sort.Slice(status, func(i, j int) bool {
		return status[i].Version < status[j].Version
	})

	return status, nil
}
