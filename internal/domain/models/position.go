package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Side is the direction of a leveraged position.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// MarginMode selects how a position's margin is segregated.
type MarginMode string

const (
	Cross    MarginMode = "cross"
	Isolated MarginMode = "isolated"
)

// Position is a snapshot of an open leveraged position as supplied by the
// external ledger. Risk figures are derived from it, never stored back.
type Position struct {
	Symbol     string
	Side       Side
	EntryPrice decimal.Decimal
	Quantity   decimal.Decimal
	Margin     decimal.Decimal
	Leverage   int64 // >= 1
	MarginMode MarginMode
}

// Validate checks the snapshot invariants. Leverage bounds are checked by
// the risk calculator separately so that the error carries its own type.
func (p Position) Validate() error {
	if p.Side != Long && p.Side != Short {
		return fmt.Errorf("position side %q: %w", p.Side, ErrInvalidInput)
	}
	if p.MarginMode != Cross && p.MarginMode != Isolated {
		return fmt.Errorf("margin mode %q: %w", p.MarginMode, ErrInvalidInput)
	}
	if !p.EntryPrice.IsPositive() {
		return fmt.Errorf("entry price %s must be > 0: %w", p.EntryPrice, ErrInvalidInput)
	}
	if !p.Quantity.IsPositive() {
		return fmt.Errorf("quantity %s must be > 0: %w", p.Quantity, ErrInvalidInput)
	}
	return nil
}

// RiskFigures bundles the derived valuation of one position at one mark price.
type RiskFigures struct {
	Notional         decimal.Decimal `json:"notional"`
	RequiredMargin   decimal.Decimal `json:"required_margin"`
	UnrealizedPnL    decimal.Decimal `json:"unrealized_pnl"`
	ROE              decimal.Decimal `json:"roe"` // percent
	LiquidationPrice decimal.Decimal `json:"liquidation_price"`
}
