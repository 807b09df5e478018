package numerator

import (
	"errors"
	"fmt"
)

// StoreError reports that the counter store could not durably commit an
// increment. No number was issued and nothing was persisted, so the call can be
// retried safely.
type StoreError struct {
	Key Key
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("numerator %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Retryable is always true: the store commits atomically or not at all.
func (e *StoreError) Retryable() bool { return true }

// IsRetryable reports whether err carries a *StoreError.
func IsRetryable(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
