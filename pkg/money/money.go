// Package money provides the fixed-point amount type used by the ledger.
// Amounts carry exactly four fractional digits and are backed by exact
// decimal arithmetic, never binary floating point.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits an Amount carries.
// Input with more digits is truncated toward zero, not rounded.
const Precision = 4

// ErrEmpty is returned by Parse for an empty or all-whitespace input.
var ErrEmpty = errors.New("empty amount")

// Amount is an exact decimal value with Precision fractional digits.
// The zero value is 0.0000 and ready to use.
type Amount struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// Parse converts a decimal literal into an Amount. Surrounding whitespace
// is trimmed and fractional digits beyond Precision are truncated, so
// "1.53349999" parses to 1.5334.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrEmpty
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	return Amount{value: value.Truncate(Precision)}, nil
}

// MustParse is Parse for literals known to be valid. It panics on error
// and is intended for tests and fixed constants.
func MustParse(s string) Amount {
	amount, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return amount
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value)}
}

// Cmp compares two amounts: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(b.value)
}

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool {
	return a.value.LessThan(b.value)
}

// Equal reports whether two amounts are numerically equal.
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

// String renders the amount with exactly Precision fractional digits,
// e.g. "1.5000" or "-0.0001". Output precision always matches input
// precision regardless of trailing zeros.
func (a Amount) String() string {
	return a.value.StringFixed(Precision)
}
