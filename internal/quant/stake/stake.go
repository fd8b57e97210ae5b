// Package stake computes time-weighted launchpool yield. Accrual is linear
// in elapsed time at the pool's APY; partial days accrue partial reward.
// The claim write itself is performed by external persistence, this package
// only computes the delta and the new cumulative value.
package stake

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
)

// ErrNothingToClaim is a reported, non-fatal business condition: the stake
// has no positive claimable amount at the evaluation instant.
var ErrNothingToClaim = errors.New("stake: nothing to claim")

var (
	basisDays = decimal.NewFromInt(36500)    // apyPercent / 100 / 365 folded into one divisor
	dayMillis = decimal.NewFromInt(86400000)
)

// Accrued returns the total reward earned between StakedAt and asOf using a
// real-valued day count.
func Accrued(s models.Stake, asOf time.Time) (decimal.Decimal, error) {
	if err := s.Validate(); err != nil {
		return decimal.Zero, err
	}
	if asOf.Before(s.StakedAt) {
		return decimal.Zero, fmt.Errorf("asOf %s precedes stakedAt %s: %w",
			asOf.Format(time.RFC3339), s.StakedAt.Format(time.RFC3339), models.ErrInvalidInput)
	}
	days := decimal.NewFromInt(asOf.Sub(s.StakedAt).Milliseconds()).Div(dayMillis)
	return s.Principal.Mul(s.APYPercent).Div(basisDays).Mul(days), nil
}

// Claimable is accrued minus what was already claimed. A non-positive
// result is reported as ErrNothingToClaim, never returned as a negative.
func Claimable(s models.Stake, asOf time.Time) (decimal.Decimal, error) {
	accrued, err := Accrued(s, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	claimable := accrued.Sub(s.RewardClaimed)
	if !claimable.IsPositive() {
		return decimal.Zero, ErrNothingToClaim
	}
	return claimable, nil
}

// Evaluate bundles accrued and claimable; a NothingToClaim condition yields
// a zero claimable, not an error, since it is a valid display state.
func Evaluate(s models.Stake, asOf time.Time) (models.Accrual, error) {
	accrued, err := Accrued(s, asOf)
	if err != nil {
		return models.Accrual{}, err
	}
	claimable := accrued.Sub(s.RewardClaimed)
	if claimable.IsNegative() {
		claimable = decimal.Zero
	}
	return models.Accrual{Accrued: accrued, Claimable: claimable}, nil
}

// ClaimResult is what a successful claim would write back.
type ClaimResult struct {
	Delta      decimal.Decimal // amount paid out now
	NewClaimed decimal.Decimal // cumulative claimed after the payout
}

// Claim computes the payout that advances RewardClaimed to the accrued
// value at asOf.
func Claim(s models.Stake, asOf time.Time) (ClaimResult, error) {
	accrued, err := Accrued(s, asOf)
	if err != nil {
		return ClaimResult{}, err
	}
	delta := accrued.Sub(s.RewardClaimed)
	if !delta.IsPositive() {
		return ClaimResult{}, ErrNothingToClaim
	}
	return ClaimResult{Delta: delta, NewClaimed: accrued}, nil
}
