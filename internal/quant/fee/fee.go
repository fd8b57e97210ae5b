// Package fee holds the static rate tables and the pure fee/funding
// computations. Nothing here moves funds; funding payments in particular are
// display-only figures, settlement belongs to the external ledger.
package fee

import (
	"fmt"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
)

// Role distinguishes which side of the book an order took.
type Role string

const (
	Maker Role = "maker"
	Taker Role = "taker"
)

// RateTable is configuration, not runtime state. Rates are fractions
// (0.0004 means 0.04%).
type RateTable struct {
	SpotRate           decimal.Decimal
	TakerRate          decimal.Decimal
	MakerRate          decimal.Decimal
	FundingRate        decimal.Decimal
	DiscountToken      string          // fee currency eligible for the discount
	DiscountMultiplier decimal.Decimal // 0.25 means 25% off
}

// DefaultRates mirrors the exchange's published schedule.
func DefaultRates() RateTable {
	return RateTable{
		SpotRate:           decimal.RequireFromString("0.001"),
		TakerRate:          decimal.RequireFromString("0.0004"),
		MakerRate:          decimal.RequireFromString("0.0002"),
		FundingRate:        decimal.RequireFromString("0.0001"),
		DiscountToken:      "BTU",
		DiscountMultiplier: decimal.RequireFromString("0.25"),
	}
}

// FuturesFee is notional times the role's rate.
func (r RateTable) FuturesFee(notional decimal.Decimal, role Role) (decimal.Decimal, error) {
	switch role {
	case Maker:
		return notional.Mul(r.MakerRate), nil
	case Taker:
		return notional.Mul(r.TakerRate), nil
	default:
		return decimal.Zero, fmt.Errorf("order role %q: %w", role, models.ErrInvalidInput)
	}
}

// SpotFee applies the flat spot rate, discounted when the fee is paid in the
// designated discount token.
func (r RateTable) SpotFee(notional decimal.Decimal, feeCurrency string) decimal.Decimal {
	f := notional.Mul(r.SpotRate)
	if r.DiscountToken != "" && feeCurrency == r.DiscountToken {
		f = f.Mul(decimal.NewFromInt(1).Sub(r.DiscountMultiplier))
	}
	return f
}

// FundingPayment is the per-period funding figure for a position's notional.
func (r RateTable) FundingPayment(notional decimal.Decimal) decimal.Decimal {
	return notional.Mul(r.FundingRate)
}
