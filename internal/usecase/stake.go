package usecase

import (
	"time"

	"BitUp/internal/domain/models"
	drepo "BitUp/internal/domain/repository"
	"BitUp/internal/quant/stake"
)

// StakeUseCase exposes reward accrual computations. Claims are previews:
// the wallet credit and the RewardClaimed write happen in the external
// ledger using the figures returned here.
type StakeUseCase struct {
	metrics drepo.Metrics
}

func NewStakeUseCase(metrics drepo.Metrics) *StakeUseCase {
	return &StakeUseCase{metrics: metrics}
}

// Accrual returns accrued and claimable amounts at asOf.
func (uc *StakeUseCase) Accrual(s models.Stake, asOf time.Time) (models.Accrual, error) {
	start := time.Now()
	acc, err := stake.Evaluate(s, asOf)
	if err != nil {
		uc.metrics.RecordError("stake_accrual")
		return models.Accrual{}, err
	}
	uc.metrics.RecordLatency("stake_accrual", time.Since(start).Seconds())
	return acc, nil
}

// PreviewClaim computes the payout delta and the new cumulative claimed
// value. stake.ErrNothingToClaim passes through for the handler to report
// as a business condition, not a server fault.
func (uc *StakeUseCase) PreviewClaim(s models.Stake, asOf time.Time) (stake.ClaimResult, error) {
	res, err := stake.Claim(s, asOf)
	if err != nil {
		uc.metrics.RecordError("stake_claim")
		return stake.ClaimResult{}, err
	}
	return res, nil
}
