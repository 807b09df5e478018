// Package numerator provides the store-backed document numbering service.
// This is the infrastructure layer - it implements core/numerator.Generator interface.
package numerator

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ortoflow/internal/core/apperror"
	corenumerator "ortoflow/internal/core/numerator"
	"ortoflow/pkg/logger"
)

var tracer = otel.Tracer("ortoflow/numerator")

// PadWidth is the minimum width of the numeric part.
const PadWidth = 4

// Service issues document numbers. It holds no counter state of its own:
// every call goes to the shared store.
type Service struct {
	store    corenumerator.Store
	location *time.Location
	now      func() time.Time
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// Option configures Service.
type Option func(*Service)

// WithLocation sets the time zone that decides the calendar year.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a numbering service over store.
func New(store corenumerator.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextNumber generates the next document number for the current year.
// Pattern: PREFIX-YEAR-NNNN (e.g., DDT-2026-0042)
func (s *Service) NextNumber(ctx context.Context, docType corenumerator.DocumentType) (string, error) {
	return s.NextNumberAt(ctx, docType, s.now())
}

// NextNumberAt generates the next document number in the calendar year of at.
func (s *Service) NextNumberAt(ctx context.Context, docType corenumerator.DocumentType, at time.Time) (string, error) {
	if s == nil || s.store == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	prefix, ok := docType.Prefix()
	if !ok {
		return "", apperror.NewValidation("unknown document type").
			WithDetail("documentType", string(docType))
	}

	key := corenumerator.Key{Type: docType, Year: at.In(s.location).Year()}

	ctx, span := tracer.Start(ctx, "numerator.next",
		trace.WithAttributes(
			attribute.String("numerator.type", string(docType)),
			attribute.Int("numerator.year", key.Year),
		))
	defer span.End()

	n, err := s.store.IncrementAndGet(ctx, key, prefix)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "increment failed")
		logger.Warn(ctx, "document number not issued", "key", key.String(), "error", err)
		return "", &corenumerator.StoreError{Key: key, Op: "increment", Err: err}
	}

	number := FormatNumber(prefix, key.Year, n)
	logger.Debug(ctx, "document number issued", "key", key.String(), "number", number)
	return number, nil
}

// Reset sets the counter of (docType, year) to value (for migration purposes).
func (s *Service) Reset(ctx context.Context, docType corenumerator.DocumentType, year int, value int64) error {
	prefix, ok := docType.Prefix()
	if !ok {
		return apperror.NewValidation("unknown document type").
			WithDetail("documentType", string(docType))
	}
	if value < 0 {
		return apperror.NewValidation("counter value cannot be negative").
			WithDetail("value", value)
	}
	if year <= 0 {
		return apperror.NewValidation("invalid year").WithDetail("year", year)
	}

	key := corenumerator.Key{Type: docType, Year: year}
	if err := s.store.Reset(ctx, key, prefix, value); err != nil {
		return &corenumerator.StoreError{Key: key, Op: "reset", Err: err}
	}
	logger.Info(ctx, "document counter reset", "key", key.String(), "value", value)
	return nil
}

// Current returns the last issued counter of (docType, year) without issuing.
func (s *Service) Current(ctx context.Context, docType corenumerator.DocumentType, year int) (int64, error) {
	if !docType.Valid() {
		return 0, apperror.NewValidation("unknown document type").
			WithDetail("documentType", string(docType))
	}
	key := corenumerator.Key{Type: docType, Year: year}
	n, err := s.store.Current(ctx, key)
	if err != nil {
		return 0, &corenumerator.StoreError{Key: key, Op: "read", Err: err}
	}
	return n, nil
}

// FormatNumber creates the final number string. Numbers wider than PadWidth
// are kept in full.
func FormatNumber(prefix string, year int, num int64) string {
	return fmt.Sprintf("%s-%04d-%0*d", prefix, year, PadWidth, num)
}
