// Package risk computes margin, liquidation, PnL and ROE figures for
// leveraged positions. Every function is a pure transformation of a position
// snapshot plus a mark price; nothing is stored back.
package risk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
	"BitUp/internal/quant/num"
)

var (
	// ErrInvalidLeverage is returned for leverage < 1. Never silently
	// collapses into an infinite or zero margin.
	ErrInvalidLeverage = errors.New("risk: leverage must be >= 1")

	// ErrZeroMargin is returned when a ratio against margin is requested
	// for a position with margin <= 0.
	ErrZeroMargin = errors.New("risk: margin must be > 0")
)

var hundred = decimal.NewFromInt(100)

// Notional is price times quantity. At order time the caller passes the
// limit price (or live mark for market orders); for valuation the live mark.
func Notional(price, qty decimal.Decimal) decimal.Decimal {
	return price.Mul(qty)
}

// RequiredMargin is notional divided by leverage.
func RequiredMargin(notional decimal.Decimal, leverage int64) (decimal.Decimal, error) {
	if leverage < 1 {
		return decimal.Zero, fmt.Errorf("leverage %d: %w", leverage, ErrInvalidLeverage)
	}
	return num.Div(notional, decimal.NewFromInt(leverage))
}

// UnrealizedPnL values the open position at the mark price. Positive means
// profit for both sides.
func UnrealizedPnL(p models.Position, mark decimal.Decimal) decimal.Decimal {
	if p.Side == models.Short {
		return p.EntryPrice.Sub(mark).Mul(p.Quantity)
	}
	return mark.Sub(p.EntryPrice).Mul(p.Quantity)
}

// ClosePnL is the realized PnL of closing the whole position at closePrice.
// Whether closing is permitted is the ledger's decision, not ours.
func ClosePnL(p models.Position, closePrice decimal.Decimal) decimal.Decimal {
	return UnrealizedPnL(p, closePrice)
}

// ROE is unrealized PnL over margin, in percent.
func ROE(p models.Position, mark decimal.Decimal) (decimal.Decimal, error) {
	if !p.Margin.IsPositive() {
		return decimal.Zero, fmt.Errorf("margin %s: %w", p.Margin, ErrZeroMargin)
	}
	ratio, err := num.Div(UnrealizedPnL(p, mark), p.Margin)
	if err != nil {
		return decimal.Zero, err
	}
	return ratio.Mul(hundred), nil
}

// LiquidationPrice solves margin + pnl(mark) = maintenanceFloor for the mark
// price at which the position's margin is consumed. For cross mode the
// caller supplies crossAdjustment, the margin netted from the account's
// other positions; it is an external aggregate, never computed here.
func LiquidationPrice(p models.Position, maintenanceFloor, crossAdjustment decimal.Decimal) (decimal.Decimal, error) {
	if err := p.Validate(); err != nil {
		return decimal.Zero, err
	}
	available := p.Margin
	if p.MarginMode == models.Cross {
		available = available.Add(crossAdjustment)
	}
	buffer, err := num.Div(available.Sub(maintenanceFloor), p.Quantity)
	if err != nil {
		return decimal.Zero, err
	}
	if p.Side == models.Short {
		return p.EntryPrice.Add(buffer), nil
	}
	liq := p.EntryPrice.Sub(buffer)
	// A fully collateralized long cannot be liquidated below zero.
	return num.Max(liq, decimal.Zero), nil
}

// Evaluate bundles all derived figures for one position at one mark price.
func Evaluate(p models.Position, mark, maintenanceFloor, crossAdjustment decimal.Decimal) (models.RiskFigures, error) {
	if err := p.Validate(); err != nil {
		return models.RiskFigures{}, err
	}
	if !mark.IsPositive() {
		return models.RiskFigures{}, fmt.Errorf("mark price %s must be > 0: %w", mark, models.ErrInvalidInput)
	}

	notional := Notional(mark, p.Quantity)
	reqMargin, err := RequiredMargin(notional, p.Leverage)
	if err != nil {
		return models.RiskFigures{}, err
	}
	roe, err := ROE(p, mark)
	if err != nil {
		return models.RiskFigures{}, err
	}
	liq, err := LiquidationPrice(p, maintenanceFloor, crossAdjustment)
	if err != nil {
		return models.RiskFigures{}, err
	}

	return models.RiskFigures{
		Notional:         notional,
		RequiredMargin:   reqMargin,
		UnrealizedPnL:    UnrealizedPnL(p, mark),
		ROE:              roe,
		LiquidationPrice: liq,
	}, nil
}
