package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks inputs rejected at construction time: non-positive
// prices or quantities, malformed intervals, zero timestamps.
var ErrInvalidInput = errors.New("invalid input")

// Tick is a single executed trade as delivered by the matching engine.
// Immutable once observed; the core never retains ticks beyond the
// aggregation window of one call.
type Tick struct {
	Symbol    string
	Timestamp time.Time // millisecond resolution
	Price     decimal.Decimal
	Quantity  decimal.Decimal
}

// NewTick validates and constructs a Tick.
func NewTick(symbol string, ts time.Time, price, qty decimal.Decimal) (Tick, error) {
	t := Tick{Symbol: symbol, Timestamp: ts, Price: price, Quantity: qty}
	if err := t.Validate(); err != nil {
		return Tick{}, err
	}
	return t, nil
}

// Validate checks the tick invariants.
func (t Tick) Validate() error {
	if t.Timestamp.IsZero() {
		return fmt.Errorf("tick timestamp is zero: %w", ErrInvalidInput)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("tick price %s must be > 0: %w", t.Price, ErrInvalidInput)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("tick quantity %s must be > 0: %w", t.Quantity, ErrInvalidInput)
	}
	return nil
}
