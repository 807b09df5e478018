package numerator

import (
	"context"
	"time"
)

// Store is the shared counter store. Every mutation must be a single atomic
// operation against durable storage: implementations never read-then-write and
// never check-then-create.
//
// Several processes may issue numbers against the same store at once, so
// nothing here may be cached in process.
type Store interface {
	// IncrementAndGet creates the (type, year) row if missing, increments the
	// counter by exactly one and returns the new value, all in one step.
	// The value must be durably committed before it is returned.
	IncrementAndGet(ctx context.Context, key Key, prefix string) (int64, error)

	// Reset sets the counter of key to value (administrative use).
	Reset(ctx context.Context, key Key, prefix string, value int64) error

	// Current returns the last issued counter for key, or 0 if none was issued.
	Current(ctx context.Context, key Key) (int64, error)
}

// Generator generates sequential document numbers.
type Generator interface {
	// NextNumber issues the next number for docType in the current year.
	// Pattern: PREFIX-YEAR-NNNN (e.g., ORD-2026-0001)
	NextNumber(ctx context.Context, docType DocumentType) (string, error)

	// NextNumberAt issues the next number for docType in the year of at.
	NextNumberAt(ctx context.Context, docType DocumentType, at time.Time) (string, error)
}
