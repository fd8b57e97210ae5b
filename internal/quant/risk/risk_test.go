package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func position(side models.Side) models.Position {
	return models.Position{
		Symbol:     "BTCUSDT",
		Side:       side,
		EntryPrice: dec("100"),
		Quantity:   dec("2"),
		Margin:     dec("20"),
		Leverage:   10,
		MarginMode: models.Isolated,
	}
}

func TestNotional(t *testing.T) {
	assert.Equal(t, "200", Notional(dec("100"), dec("2")).String())
}

func TestRequiredMargin(t *testing.T) {
	m, err := RequiredMargin(dec("200"), 10)
	require.NoError(t, err)
	assert.Equal(t, "20", m.String())
}

func TestRequiredMarginInvalidLeverage(t *testing.T) {
	for _, lev := range []int64{0, -1} {
		_, err := RequiredMargin(dec("200"), lev)
		assert.ErrorIs(t, err, ErrInvalidLeverage, "leverage %d", lev)
	}
}

func TestUnrealizedPnLLong(t *testing.T) {
	p := position(models.Long)
	pnl := UnrealizedPnL(p, dec("110"))
	assert.Equal(t, "20", pnl.String())

	roe, err := ROE(p, dec("110"))
	require.NoError(t, err)
	assert.Equal(t, "100", roe.String())
}

func TestUnrealizedPnLShort(t *testing.T) {
	p := position(models.Short)
	pnl := UnrealizedPnL(p, dec("90"))
	assert.Equal(t, "20", pnl.String())

	roe, err := ROE(p, dec("90"))
	require.NoError(t, err)
	assert.Equal(t, "100", roe.String())
}

func TestPnLSignConvention(t *testing.T) {
	long := position(models.Long)
	short := position(models.Short)
	// Both sides lose when price moves against them.
	assert.True(t, UnrealizedPnL(long, dec("95")).IsNegative())
	assert.True(t, UnrealizedPnL(short, dec("105")).IsNegative())
}

func TestROEZeroMargin(t *testing.T) {
	p := position(models.Long)
	p.Margin = decimal.Zero
	_, err := ROE(p, dec("110"))
	assert.ErrorIs(t, err, ErrZeroMargin)
}

func TestLiquidationPriceIsolated(t *testing.T) {
	// margin 20, qty 2: the long absorbs a 10/unit move before margin is gone.
	long := position(models.Long)
	liq, err := LiquidationPrice(long, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "90", liq.String())

	short := position(models.Short)
	liq, err = LiquidationPrice(short, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "110", liq.String())
}

func TestLiquidationPriceMaintenanceFloor(t *testing.T) {
	long := position(models.Long)
	liq, err := LiquidationPrice(long, dec("4"), decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "92", liq.String())
}

func TestLiquidationPriceCrossAdjustment(t *testing.T) {
	p := position(models.Long)
	p.MarginMode = models.Cross
	// Other positions contribute 20 more margin, doubling the buffer.
	liq, err := LiquidationPrice(p, decimal.Zero, dec("20"))
	require.NoError(t, err)
	assert.Equal(t, "80", liq.String())
}

func TestLiquidationPriceFloorsAtZero(t *testing.T) {
	p := position(models.Long)
	p.Margin = dec("1000")
	p.Leverage = 1
	liq, err := LiquidationPrice(p, decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, liq.IsZero())
}

func TestClosePnL(t *testing.T) {
	p := position(models.Long)
	assert.Equal(t, "-10", ClosePnL(p, dec("95")).String())
}

func TestEvaluate(t *testing.T) {
	p := position(models.Long)
	fig, err := Evaluate(p, dec("110"), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, "220", fig.Notional.String())
	assert.Equal(t, "22", fig.RequiredMargin.String())
	assert.Equal(t, "20", fig.UnrealizedPnL.String())
	assert.Equal(t, "100", fig.ROE.String())
	assert.Equal(t, "90", fig.LiquidationPrice.String())
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	p := position(models.Long)

	_, err := Evaluate(p, decimal.Zero, decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	p.Leverage = 0
	_, err = Evaluate(p, dec("110"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidLeverage)

	p = position(models.Long)
	p.Side = "sideways"
	_, err = Evaluate(p, dec("110"), decimal.Zero, decimal.Zero)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
