package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
)

func TestFuturesFee(t *testing.T) {
	r := DefaultRates()
	notional := decimal.NewFromInt(10000)

	taker, err := r.FuturesFee(notional, Taker)
	require.NoError(t, err)
	assert.Equal(t, "4", taker.String())

	maker, err := r.FuturesFee(notional, Maker)
	require.NoError(t, err)
	assert.Equal(t, "2", maker.String())
}

func TestFuturesFeeUnknownRole(t *testing.T) {
	_, err := DefaultRates().FuturesFee(decimal.NewFromInt(100), "arbitrageur")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSpotFee(t *testing.T) {
	r := DefaultRates()
	notional := decimal.NewFromInt(1000)

	assert.Equal(t, "1", r.SpotFee(notional, "USDT").String())
	// 25% off when paying in BTU.
	assert.Equal(t, "0.75", r.SpotFee(notional, "BTU").String())
}

func TestFundingPayment(t *testing.T) {
	got := DefaultRates().FundingPayment(decimal.NewFromInt(50000))
	assert.Equal(t, "5", got.String())
}
