package stake

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
)

var epoch = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testStake(claimed string) models.Stake {
	return models.Stake{
		Principal:     decimal.NewFromInt(1000),
		APYPercent:    decimal.RequireFromString("36.5"),
		StakedAt:      epoch,
		RewardClaimed: decimal.RequireFromString(claimed),
	}
}

func TestAccruedTenDays(t *testing.T) {
	s := testStake("0")
	got, err := Accrued(s, epoch.AddDate(0, 0, 10))
	require.NoError(t, err)
	// 1000 * (0.365/365) * 10 = 10
	assert.True(t, got.Equal(decimal.NewFromInt(10)), "got %s", got)
}

func TestAccruedPartialDay(t *testing.T) {
	s := testStake("0")
	got, err := Accrued(s, epoch.Add(12*time.Hour))
	require.NoError(t, err)
	// Half a day accrues half the daily reward, not zero.
	assert.True(t, got.Equal(decimal.RequireFromString("0.5")), "got %s", got)
}

func TestClaimableAfterClaimIsNothing(t *testing.T) {
	asOf := epoch.AddDate(0, 0, 10)

	res, err := Claim(testStake("0"), asOf)
	require.NoError(t, err)
	assert.True(t, res.Delta.Equal(decimal.NewFromInt(10)))
	assert.True(t, res.NewClaimed.Equal(decimal.NewFromInt(10)))

	// Re-evaluating with the advanced claimed amount at the same instant.
	_, err = Claimable(testStake("10"), asOf)
	assert.ErrorIs(t, err, ErrNothingToClaim)
}

func TestClaimableNeverNegative(t *testing.T) {
	// Claimed ahead of accrual; claimable reports the condition, not -5.
	_, err := Claimable(testStake("15"), epoch.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, ErrNothingToClaim)

	acc, err := Evaluate(testStake("15"), epoch.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.True(t, acc.Claimable.IsZero())
}

func TestAccrualMonotonic(t *testing.T) {
	s := testStake("3")
	prev := decimal.Zero
	for d := 0; d <= 30; d++ {
		got, err := Accrued(s, epoch.Add(time.Duration(d)*17*time.Hour))
		require.NoError(t, err)
		assert.True(t, got.GreaterThanOrEqual(prev), "accrual decreased at step %d", d)
		prev = got
	}
}

func TestAccruedBeforeStakedAt(t *testing.T) {
	_, err := Accrued(testStake("0"), epoch.Add(-time.Hour))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestInvalidStake(t *testing.T) {
	s := testStake("0")
	s.Principal = decimal.Zero
	_, err := Accrued(s, epoch.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
