// Package num is the decimal arithmetic layer for all money-bearing values.
// It builds on shopspring/decimal and adds the failure semantics the quant
// packages rely on: division by zero is an error, never a panic or NaN.
package num

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrDivisionByZero is returned when a denominator is zero.
var ErrDivisionByZero = errors.New("num: division by zero")

// MinDivisionPrecision is the number of fractional digits carried through
// division. Eight digits cover satoshi-level amounts; sixteen leaves
// headroom for chained multiplications.
const MinDivisionPrecision = 16

func init() {
	if decimal.DivisionPrecision < MinDivisionPrecision {
		decimal.DivisionPrecision = MinDivisionPrecision
	}
}

// Zero is the decimal zero value.
var Zero = decimal.Zero

// FromInt constructs a decimal from an int64.
func FromInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// FromFloat constructs a decimal from a float64.
func FromFloat(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// FromString parses a decimal from its string form.
func FromString(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("num: parse %q: %w", s, err)
	}
	return d, nil
}

// Div divides a by b, failing with ErrDivisionByZero when b is zero.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return a.Div(b), nil
}

// DivRound divides a by b rounding half away from zero to the given number
// of fractional digits.
func DivRound(a, b decimal.Decimal, places int32) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return a.DivRound(b, places), nil
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal { return decimal.Min(a, b) }

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal { return decimal.Max(a, b) }
