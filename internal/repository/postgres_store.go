package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a KeyValueStore over the kv_entries table.
// The table is created by the goose migrations in internal/database.
func NewPostgresStore(db *sql.DB) KeyValueStore {
	return &postgresStore{db: db}
}

// Get retrieves a value by key using parameterized queries
func (s *postgresStore) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, nil
}

// Set upserts the value for key
func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}
