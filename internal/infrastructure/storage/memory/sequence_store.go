// Package memory provides in-process implementations of storage contracts for
// tests, demos and single-binary runs without a database.
package memory

import (
	"context"
	"sync"

	"ortoflow/internal/core/numerator"
)

// SequenceStore is a mutex-guarded counter map. It is shared mutable state for
// one process only; use the postgres or sqlite store when several processes
// issue numbers.
type SequenceStore struct {
	mu       sync.Mutex
	counters map[numerator.Key]int64
	prefixes map[numerator.Key]string

	// FailWith, when set, is consulted before every mutation; a non-nil result
	// aborts the call without touching the counter.
	FailWith func(key numerator.Key) error
}

var _ numerator.Store = (*SequenceStore)(nil)

// NewSequenceStore creates an empty store.
func NewSequenceStore() *SequenceStore {
	return &SequenceStore{
		counters: make(map[numerator.Key]int64),
		prefixes: make(map[numerator.Key]string),
	}
}

// IncrementAndGet implements numerator.Store.
func (s *SequenceStore) IncrementAndGet(ctx context.Context, key numerator.Key, prefix string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		if err := s.FailWith(key); err != nil {
			return 0, err
		}
	}
	s.counters[key]++
	s.prefixes[key] = prefix
	return s.counters[key], nil
}

// Reset implements numerator.Store.
func (s *SequenceStore) Reset(ctx context.Context, key numerator.Key, prefix string, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		if err := s.FailWith(key); err != nil {
			return err
		}
	}
	s.counters[key] = value
	s.prefixes[key] = prefix
	return nil
}

// Current implements numerator.Store.
func (s *SequenceStore) Current(ctx context.Context, key numerator.Key) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[key], nil
}
