package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/inference-gateway/pasteboard/internal/domain"
	migrations "github.com/inference-gateway/pasteboard/internal/infra/backend/migrations"
)

// SQLStore keeps every medium in one database. Backends opened from the
// store share its connection pool.
type SQLStore struct {
	db      *sql.DB
	dialect migrations.Dialect
}

// SQLBackend implements domain.Backend over the pasteboard tables
type SQLBackend struct {
	name  string
	store *SQLStore
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect migrations.Dialect) (*SQLStore, error) {
	schema, err := migrations.For(dialect)
	if err != nil {
		return nil, err
	}

	if _, err := migrations.NewMigrationRunner(db, dialect).ApplyMigrations(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to migrate %s schema: %w", dialect, err)
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

// Backend returns the backend for the named medium
func (s *SQLStore) Backend(name string) (domain.Backend, error) {
	return &SQLBackend{name: name, store: s}, nil
}

// Close closes the connection pool
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) q(query string) string {
	return s.dialect.Rebind(query)
}

// Name returns the medium name
func (b *SQLBackend) Name() string {
	return b.name
}

// ChangeToken returns the stored mutation counter
func (b *SQLBackend) ChangeToken(ctx context.Context) (int64, error) {
	var token int64
	err := b.store.db.QueryRowContext(ctx,
		b.store.q("SELECT change_token FROM pasteboard_state WHERE pasteboard = ?"), b.name).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read change token: %w", err)
	}
	return token, nil
}

// Types lists stored types in write order
func (b *SQLBackend) Types(ctx context.Context) ([]string, error) {
	rows, err := b.store.db.QueryContext(ctx,
		b.store.q("SELECT type FROM pasteboard_entries WHERE pasteboard = ? ORDER BY position"), b.name)
	if err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	types := []string{}
	for rows.Next() {
		var typ string
		if err := rows.Scan(&typ); err != nil {
			return nil, fmt.Errorf("failed to scan type: %w", err)
		}
		types = append(types, typ)
	}
	return types, rows.Err()
}

// ReadPayload returns the payload stored for typ
func (b *SQLBackend) ReadPayload(ctx context.Context, typ string) ([]byte, bool, error) {
	var data []byte
	err := b.store.db.QueryRowContext(ctx,
		b.store.q("SELECT data FROM pasteboard_entries WHERE pasteboard = ? AND type = ?"), b.name, typ).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", typ, err)
	}
	return data, true, nil
}

// WritePayload stores one entry, keeping the position of an existing type
func (b *SQLBackend) WritePayload(ctx context.Context, typ string, data []byte) error {
	return b.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			b.store.q("UPDATE pasteboard_entries SET data = ? WHERE pasteboard = ? AND type = ?"), data, b.name, typ)
		if err != nil {
			return err
		}
		updated, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if updated == 0 {
			var position int64
			err := tx.QueryRowContext(ctx,
				b.store.q("SELECT COALESCE(MAX(position) + 1, 0) FROM pasteboard_entries WHERE pasteboard = ?"), b.name).Scan(&position)
			if err != nil {
				return err
			}
			if err := b.insert(ctx, tx, typ, position, data); err != nil {
				return err
			}
		}

		return b.bumpToken(ctx, tx)
	})
}

// Replace swaps the whole medium content
func (b *SQLBackend) Replace(ctx context.Context, entries []domain.Entry) error {
	return b.inTx(ctx, func(tx *sql.Tx) error {
		if err := b.deleteAll(ctx, tx); err != nil {
			return err
		}
		for i, e := range dedupeEntries(entries) {
			if err := b.insert(ctx, tx, e.Type, int64(i), e.Data); err != nil {
				return err
			}
		}
		return b.bumpToken(ctx, tx)
	})
}

// Clear removes every entry
func (b *SQLBackend) Clear(ctx context.Context) error {
	return b.inTx(ctx, func(tx *sql.Tx) error {
		if err := b.deleteAll(ctx, tx); err != nil {
			return err
		}
		return b.bumpToken(ctx, tx)
	})
}

// ClearType removes the entry for typ
func (b *SQLBackend) ClearType(ctx context.Context, typ string) error {
	return b.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			b.store.q("DELETE FROM pasteboard_entries WHERE pasteboard = ? AND type = ?"), b.name, typ)
		if err != nil {
			return err
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		return b.bumpToken(ctx, tx)
	})
}

// Close is a no-op; the store owns the connection pool
func (b *SQLBackend) Close() error {
	return nil
}

func (b *SQLBackend) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return fmt.Errorf("failed to update pasteboard %s: %w", b.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit pasteboard %s: %w", b.name, err)
	}
	return nil
}

func (b *SQLBackend) insert(ctx context.Context, tx *sql.Tx, typ string, position int64, data []byte) error {
	_, err := tx.ExecContext(ctx,
		b.store.q("INSERT INTO pasteboard_entries (pasteboard, type, position, data) VALUES (?, ?, ?, ?)"),
		b.name, typ, position, data)
	return err
}

func (b *SQLBackend) deleteAll(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, b.store.q("DELETE FROM pasteboard_entries WHERE pasteboard = ?"), b.name)
	return err
}

func (b *SQLBackend) bumpToken(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, b.store.q(`
		INSERT INTO pasteboard_state (pasteboard, change_token) VALUES (?, 1)
		ON CONFLICT (pasteboard) DO UPDATE SET change_token = pasteboard_state.change_token + 1`), b.name)
	return err
}
