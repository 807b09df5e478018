package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"ortoflow/internal/core/numerator"
)

// SequenceSchema creates the counter table.
const SequenceSchema = `
CREATE TABLE IF NOT EXISTS sys_sequences (
	document_type TEXT        NOT NULL,
	year          INTEGER     NOT NULL,
	prefix        TEXT        NOT NULL,
	last_value    BIGINT      NOT NULL DEFAULT 0 CHECK (last_value >= 0),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (document_type, year)
)`

// RowQuerier is the subset of pgx used by the sequence store.
// *pgxpool.Pool satisfies it.
type RowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SequenceStore implements numerator.Store on PostgreSQL.
//
// It always runs on the pool, never on a transaction found in ctx: a counter
// must be committed before the number leaves the store, independently of the
// caller's business transaction.
type SequenceStore struct {
	q RowQuerier
}

var _ numerator.Store = (*SequenceStore)(nil)

// NewSequenceStore creates a store over q.
func NewSequenceStore(q RowQuerier) *SequenceStore {
	return &SequenceStore{q: q}
}

// IncrementAndGet fetches-or-creates and increments the counter with a single
// UPSERT ... RETURNING statement.
func (s *SequenceStore) IncrementAndGet(ctx context.Context, key numerator.Key, prefix string) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO sys_sequences (document_type, year, prefix, last_value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (document_type, year) DO UPDATE
			SET last_value = sys_sequences.last_value + 1, updated_at = now()
		RETURNING last_value
	`, string(key.Type), key.Year, prefix).Scan(&n)
	if err != nil {
		return 0, classify("increment", err)
	}
	return n, nil
}

// Reset sets the counter value (for migration purposes).
func (s *SequenceStore) Reset(ctx context.Context, key numerator.Key, prefix string, value int64) error {
	var result int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO sys_sequences (document_type, year, prefix, last_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (document_type, year) DO UPDATE
			SET last_value = $4, updated_at = now()
		RETURNING last_value
	`, string(key.Type), key.Year, prefix, value).Scan(&result)
	if err != nil {
		return classify("reset", err)
	}
	return nil
}

// Current returns the last issued value, 0 when the row does not exist yet.
func (s *SequenceStore) Current(ctx context.Context, key numerator.Key) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `
		SELECT last_value FROM sys_sequences WHERE document_type = $1 AND year = $2
	`, string(key.Type), key.Year).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, classify("current", err)
	}
	return n, nil
}

// classify annotates well-known transient PostgreSQL failures.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return fmt.Errorf("%s: transaction conflict (%s): %w", op, pgErr.Code, err)
		case "57014":
			return fmt.Errorf("%s: statement cancelled: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
