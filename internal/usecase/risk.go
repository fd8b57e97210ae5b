package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
	drepo "BitUp/internal/domain/repository"
	"BitUp/internal/quant/fee"
	"BitUp/internal/quant/risk"
)

// RiskUseCase exposes the position risk calculator and fee model to the API
// layer. It holds no per-position state; every call is an independent
// valuation of a caller-supplied snapshot.
type RiskUseCase struct {
	rates   fee.RateTable
	metrics drepo.Metrics
}

func NewRiskUseCase(rates fee.RateTable, metrics drepo.Metrics) *RiskUseCase {
	return &RiskUseCase{rates: rates, metrics: metrics}
}

// Evaluate values one position at the given mark price. crossAdjustment is
// the externally aggregated margin from the account's other positions and
// only applies in cross mode.
func (uc *RiskUseCase) Evaluate(p models.Position, mark, maintenanceFloor, crossAdjustment decimal.Decimal) (models.RiskFigures, error) {
	start := time.Now()
	fig, err := risk.Evaluate(p, mark, maintenanceFloor, crossAdjustment)
	if err != nil {
		uc.metrics.RecordError("risk_evaluate")
		return models.RiskFigures{}, err
	}
	uc.metrics.RecordLatency("risk_evaluate", time.Since(start).Seconds())
	return fig, nil
}

// OrderPreview is the pre-trade summary shown on the order form.
type OrderPreview struct {
	Notional       decimal.Decimal
	RequiredMargin decimal.Decimal
	Fee            decimal.Decimal
	FundingPayment decimal.Decimal
}

// PreviewOrder computes notional, required margin and fees for an order
// before it is placed. price is the limit price, or the live mark for
// market orders.
func (uc *RiskUseCase) PreviewOrder(price, qty decimal.Decimal, leverage int64, role fee.Role) (OrderPreview, error) {
	if !price.IsPositive() || !qty.IsPositive() {
		uc.metrics.RecordError("risk_preview")
		return OrderPreview{}, models.ErrInvalidInput
	}
	notional := risk.Notional(price, qty)
	margin, err := risk.RequiredMargin(notional, leverage)
	if err != nil {
		uc.metrics.RecordError("risk_preview")
		return OrderPreview{}, err
	}
	f, err := uc.rates.FuturesFee(notional, role)
	if err != nil {
		uc.metrics.RecordError("risk_preview")
		return OrderPreview{}, err
	}
	return OrderPreview{
		Notional:       notional,
		RequiredMargin: margin,
		Fee:            f,
		FundingPayment: uc.rates.FundingPayment(notional),
	}, nil
}

// ClosePreview is the one-shot valuation of closing at a given price.
type ClosePreview struct {
	RealizedPnL decimal.Decimal
	Fee         decimal.Decimal
}

// PreviewClose values a full close at closePrice. Whether the close is
// permitted stays with the matching engine.
func (uc *RiskUseCase) PreviewClose(p models.Position, closePrice decimal.Decimal) (ClosePreview, error) {
	if err := p.Validate(); err != nil {
		uc.metrics.RecordError("risk_close")
		return ClosePreview{}, err
	}
	if !closePrice.IsPositive() {
		uc.metrics.RecordError("risk_close")
		return ClosePreview{}, models.ErrInvalidInput
	}
	notional := risk.Notional(closePrice, p.Quantity)
	f, err := uc.rates.FuturesFee(notional, fee.Taker)
	if err != nil {
		return ClosePreview{}, err
	}
	return ClosePreview{
		RealizedPnL: risk.ClosePnL(p, closePrice),
		Fee:         f,
	}, nil
}
