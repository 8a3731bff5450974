package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Dialect holds the statements a SQL backend uses against the kv_entries table.
type Dialect struct {
	Name   string
	Select string
	Upsert string
}

var (
	// Postgres addresses kv_entries with $n placeholders.
	Postgres = Dialect{
		Name:   "postgres",
		Select: `SELECT value FROM kv_entries WHERE key = $1`,
		Upsert: `INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	}

	// SQLite addresses kv_entries with ? placeholders.
	SQLite = Dialect{
		Name:   "sqlite",
		Select: `SELECT value FROM kv_entries WHERE key = ?`,
		Upsert: `INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	}
)

// SQLStore persists key-value pairs in a single kv_entries table.
// It uses database/sql with parameterized queries; the schema is created by
// the database/migration package.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQL creates a SQLStore over an open connection.
func NewSQL(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

var _ Store = (*SQLStore)(nil)

// Get returns the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var v string
	if err := s.db.QueryRowContext(ctx, s.dialect.Select, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s get %q: %w", s.dialect.Name, key, err)
	}
	return v, true, nil
}

// Set inserts or replaces the value stored under key.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, key, value); err != nil {
		return fmt.Errorf("%s set %q: %w", s.dialect.Name, key, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
