// Package sqlite provides SQLite-backed storage for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"ortoflow/internal/core/numerator"
)

const sequenceSchema = `
CREATE TABLE IF NOT EXISTS sys_sequences (
	document_type TEXT    NOT NULL,
	year          INTEGER NOT NULL,
	prefix        TEXT    NOT NULL,
	last_value    INTEGER NOT NULL DEFAULT 0 CHECK (last_value >= 0),
	updated_at    TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
	PRIMARY KEY (document_type, year)
)`

// Open opens (or creates) the database at dsn and ensures the schema.
// SQLite has a single writer; one pooled connection makes callers queue in
// database/sql instead of failing with SQLITE_BUSY, and keeps ":memory:"
// databases on one connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	for _, stmt := range []string{sequenceSchema, productSchema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return db, nil
}

// SequenceStore implements numerator.Store on SQLite (3.35+ for RETURNING).
type SequenceStore struct {
	db *sql.DB
}

var _ numerator.Store = (*SequenceStore)(nil)

// NewSequenceStore creates a store over db. The schema must exist (see Open).
func NewSequenceStore(db *sql.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

// IncrementAndGet implements numerator.Store with one UPSERT ... RETURNING.
func (s *SequenceStore) IncrementAndGet(ctx context.Context, key numerator.Key, prefix string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sys_sequences (document_type, year, prefix, last_value)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (document_type, year) DO UPDATE
			SET last_value = last_value + 1,
			    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		RETURNING last_value
	`, string(key.Type), key.Year, prefix).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("increment: %w", err)
	}
	return n, nil
}

// Reset implements numerator.Store.
func (s *SequenceStore) Reset(ctx context.Context, key numerator.Key, prefix string, value int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sys_sequences (document_type, year, prefix, last_value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (document_type, year) DO UPDATE
			SET last_value = excluded.last_value,
			    updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, string(key.Type), key.Year, prefix, value)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Current implements numerator.Store.
func (s *SequenceStore) Current(ctx context.Context, key numerator.Key) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT last_value FROM sys_sequences WHERE document_type = ? AND year = ?`,
		string(key.Type), key.Year,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("current: %w", err)
	}
	return n, nil
}

// Ping checks the database connection.
func (s *SequenceStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
