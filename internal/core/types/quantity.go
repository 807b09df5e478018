// Package types provides common value types.
package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is an ordered amount (kilograms, pieces, crates) with full decimal
// precision. JSON encodes it as a number, not a string.
type Quantity struct {
	decimal.Decimal
}

// One is the default quantity when an order line does not state one.
var One = Quantity{decimal.NewFromInt(1)}

// NewQuantity creates a Quantity from a float.
// WARNING: Use ParseQuantity for precise values.
func NewQuantity(f float64) Quantity {
	return Quantity{decimal.NewFromFloat(f)}
}

// NewQuantityFromInt creates a whole Quantity.
func NewQuantityFromInt(n int64) Quantity {
	return Quantity{decimal.NewFromInt(n)}
}

// ParseQuantity parses a decimal string; a comma is accepted as the decimal
// separator ("2,5").
func ParseQuantity(s string) (Quantity, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return Quantity{d}, nil
}

// MustQuantity parses s and panics on error.
// Use only for constants and tests.
func MustQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

// Equal compares numerically (2 == 2.0).
func (q Quantity) Equal(other Quantity) bool {
	return q.Decimal.Equal(other.Decimal)
}

// MarshalJSON encodes Quantity as a JSON number.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(q.Decimal.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a string.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		q.Decimal = decimal.Zero
		return nil
	}
	return q.Decimal.UnmarshalJSON(data)
}
