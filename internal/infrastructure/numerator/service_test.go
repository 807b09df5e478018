package numerator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ortoflow/internal/core/apperror"
	corenumerator "ortoflow/internal/core/numerator"
	"ortoflow/internal/infrastructure/storage/memory"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNextNumber_Sequential(t *testing.T) {
	store := memory.NewSequenceStore()
	svc := New(store, WithClock(fixedClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	first, err := svc.NextNumber(ctx, corenumerator.DocumentOrder)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-0001", first)

	second, err := svc.NextNumber(ctx, corenumerator.DocumentOrder)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-0002", second)

	ddt, err := svc.NextNumber(ctx, corenumerator.DocumentDeliveryNote)
	require.NoError(t, err)
	assert.Equal(t, "DDT-2026-0001", ddt)
}

func TestNextNumber_Prefixes(t *testing.T) {
	want := map[corenumerator.DocumentType]string{
		corenumerator.DocumentOrder:           "ORD-2026-0001",
		corenumerator.DocumentDeliveryNote:    "DDT-2026-0001",
		corenumerator.DocumentInvoice:         "FT-2026-0001",
		corenumerator.DocumentCustomer:        "CLI-2026-0001",
		corenumerator.DocumentSupplier:        "FOR-2026-0001",
		corenumerator.DocumentPurchaseOrder:   "OA-2026-0001",
		corenumerator.DocumentSupplierInvoice: "FT-FORN-2026-0001",
	}
	svc := New(memory.NewSequenceStore(), WithClock(fixedClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))))

	for _, dt := range corenumerator.DocumentTypes() {
		got, err := svc.NextNumber(context.Background(), dt)
		require.NoError(t, err)
		assert.Equal(t, want[dt], got, dt)
	}
}

func TestNextNumber_Monotonic(t *testing.T) {
	svc := New(memory.NewSequenceStore(), WithClock(fixedClock(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))))

	var last int64
	for i := 0; i < 50; i++ {
		number, err := svc.NextNumber(context.Background(), corenumerator.DocumentInvoice)
		require.NoError(t, err)
		_, _, n, err := parseNumber(number)
		require.NoError(t, err)
		assert.Greater(t, n, last)
		last = n
	}
	assert.Equal(t, int64(50), last)
}

func TestNextNumber_ConcurrentBurst(t *testing.T) {
	const (
		initial = 41
		callers = 200
	)
	store := memory.NewSequenceStore()
	svc := New(store, WithClock(fixedClock(time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()
	require.NoError(t, svc.Reset(ctx, corenumerator.DocumentOrder, 2026, initial))

	results := make(chan string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := svc.NextNumber(ctx, corenumerator.DocumentOrder)
			if err != nil {
				t.Error(err)
				return
			}
			results <- number
		}()
	}
	wg.Wait()
	close(results)

	var got []int64
	for number := range results {
		_, _, n, err := parseNumber(number)
		require.NoError(t, err)
		got = append(got, n)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	require.Len(t, got, callers)
	for i, n := range got {
		assert.Equal(t, int64(initial+1+i), n)
	}
}

func TestNextNumber_YearIsolation(t *testing.T) {
	svc := New(memory.NewSequenceStore())
	ctx := context.Background()
	in2025 := time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)
	in2026 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := svc.NextNumberAt(ctx, corenumerator.DocumentInvoice, in2025)
		require.NoError(t, err)
	}

	got, err := svc.NextNumberAt(ctx, corenumerator.DocumentInvoice, in2026)
	require.NoError(t, err)
	assert.Equal(t, "FT-2026-0001", got)

	got, err = svc.NextNumberAt(ctx, corenumerator.DocumentInvoice, in2025)
	require.NoError(t, err)
	assert.Equal(t, "FT-2025-0004", got)
}

func TestNextNumber_YearFollowsLocation(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	// 23:30 UTC on new year's eve is already 2027 in Rome.
	svc := New(memory.NewSequenceStore(),
		WithLocation(rome),
		WithClock(fixedClock(time.Date(2026, 12, 31, 23, 30, 0, 0, time.UTC))),
	)

	got, err := svc.NextNumber(context.Background(), corenumerator.DocumentOrder)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2027-0001", got)
}

func TestNextNumber_StoreFailureIsRetryable(t *testing.T) {
	store := memory.NewSequenceStore()
	svc := New(store, WithClock(fixedClock(time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	_, err := svc.NextNumber(ctx, corenumerator.DocumentOrder)
	require.NoError(t, err)

	unavailable := errors.New("connection refused")
	store.FailWith = func(corenumerator.Key) error { return unavailable }

	number, err := svc.NextNumber(ctx, corenumerator.DocumentOrder)
	require.Error(t, err)
	assert.Empty(t, number)
	assert.True(t, corenumerator.IsRetryable(err))
	assert.ErrorIs(t, err, unavailable)

	var storeErr *corenumerator.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, corenumerator.Key{Type: corenumerator.DocumentOrder, Year: 2026}, storeErr.Key)

	// Retrying after recovery continues from the last committed value.
	store.FailWith = nil
	number, err = svc.NextNumber(ctx, corenumerator.DocumentOrder)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-0002", number)
}

func TestNextNumber_CancelledContext(t *testing.T) {
	svc := New(memory.NewSequenceStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.NextNumber(ctx, corenumerator.DocumentOrder)
	require.Error(t, err)
	assert.True(t, corenumerator.IsRetryable(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNextNumber_UnknownType(t *testing.T) {
	svc := New(memory.NewSequenceStore())

	_, err := svc.NextNumber(context.Background(), corenumerator.DocumentType("RECEIPT"))
	require.Error(t, err)
	assert.False(t, corenumerator.IsRetryable(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReset_And_Current(t *testing.T) {
	svc := New(memory.NewSequenceStore(), WithClock(fixedClock(time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))))
	ctx := context.Background()

	n, err := svc.Current(ctx, corenumerator.DocumentPurchaseOrder, 2026)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, svc.Reset(ctx, corenumerator.DocumentPurchaseOrder, 2026, 9999))
	got, err := svc.NextNumber(ctx, corenumerator.DocumentPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, "OA-2026-10000", got)

	n, err = svc.Current(ctx, corenumerator.DocumentPurchaseOrder, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), n)

	assert.Error(t, svc.Reset(ctx, corenumerator.DocumentPurchaseOrder, 2026, -1))
}

func TestFormatNumber_RoundTrip(t *testing.T) {
	tests := []struct {
		in     string
		prefix string
		year   int
		num    int64
	}{
		{"ORD-2026-0001", "ORD", 2026, 1},
		{"FT-FORN-2025-0420", "FT-FORN", 2025, 420},
		{"OA-2026-12345", "OA", 2026, 12345},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			prefix, year, num, err := parseNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.year, year)
			assert.Equal(t, tt.num, num)
			assert.Equal(t, tt.in, FormatNumber(prefix, year, num))
		})
	}

	for _, bad := range []string{"", "ORD", "ORD-x-1", "ORD-2026-x", "ORD-2026-12ab", "ORD-20x6-0001", "-2026-0001"} {
		_, _, _, err := parseNumber(bad)
		assert.Error(t, err, fmt.Sprintf("input %q", bad))
	}
}

// parseNumber splits a formatted number into prefix, year and counter. The
// prefix may itself contain dashes (FT-FORN).
func parseNumber(formatted string) (prefix string, year int, num int64, err error) {
	i := strings.LastIndexByte(formatted, '-')
	if i < 0 {
		return "", 0, 0, fmt.Errorf("malformed document number %q", formatted)
	}
	if num, err = strconv.ParseInt(formatted[i+1:], 10, 64); err != nil {
		return "", 0, 0, fmt.Errorf("parse counter of %q: %w", formatted, err)
	}
	rest := formatted[:i]
	j := strings.LastIndexByte(rest, '-')
	if j <= 0 {
		return "", 0, 0, fmt.Errorf("malformed document number %q", formatted)
	}
	if year, err = strconv.Atoi(rest[j+1:]); err != nil {
		return "", 0, 0, fmt.Errorf("parse year of %q: %w", formatted, err)
	}
	return rest[:j], year, num, nil
}
