package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stake is a snapshot of a launchpool stake. RewardClaimed only ever grows;
// the write itself belongs to the external persistence layer.
type Stake struct {
	Principal     decimal.Decimal
	APYPercent    decimal.Decimal // annualized, 45.0 means 45%/yr
	StakedAt      time.Time
	RewardClaimed decimal.Decimal
}

// Validate checks the snapshot invariants.
func (s Stake) Validate() error {
	if !s.Principal.IsPositive() {
		return fmt.Errorf("stake principal %s must be > 0: %w", s.Principal, ErrInvalidInput)
	}
	if s.APYPercent.IsNegative() {
		return fmt.Errorf("stake apy %s must be >= 0: %w", s.APYPercent, ErrInvalidInput)
	}
	if s.StakedAt.IsZero() {
		return fmt.Errorf("stake stakedAt is zero: %w", ErrInvalidInput)
	}
	if s.RewardClaimed.IsNegative() {
		return fmt.Errorf("stake rewardClaimed %s must be >= 0: %w", s.RewardClaimed, ErrInvalidInput)
	}
	return nil
}

// Accrual is the derived reward state of a stake at one evaluation instant.
type Accrual struct {
	Accrued   decimal.Decimal `json:"accrued"`
	Claimable decimal.Decimal `json:"claimable"`
}
