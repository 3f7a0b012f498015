package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/classdash/core/internal/ports"
)

// PostgresStore keeps local settings in the kv_entries table
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a postgres-backed key-value store. The schema comes from the
// embedded migrations.
func NewPostgresStore(db *sqlx.DB) ports.KeyValueStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := r.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get kv entry %q: %w", key, err)
	}

	return value, true, nil
}

func (r *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set kv entry %q: %w", key, err)
	}

	return nil
}

func (r *PostgresStore) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = $1`

	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("remove kv entry %q: %w", key, err)
	}

	return nil
}

// Close is a no-op; the connection pool is owned by the caller.
func (r *PostgresStore) Close() error {
	return nil
}
