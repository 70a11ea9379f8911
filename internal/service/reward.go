package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fxvest/internal/models"
	"fxvest/internal/repository"
)

// AttributionStatus classifies the outcome of a one-time reward attempt so
// callers can log it without the attempt ever failing the surrounding
// request.
type AttributionStatus string

const (
	AttributionCredited          AttributionStatus = "credited"
	AttributionSkippedNoReferrer AttributionStatus = "skipped_no_referrer"
	AttributionSkippedNotFirst   AttributionStatus = "skipped_not_first"
	AttributionSkippedUnmapped   AttributionStatus = "skipped_unmapped"
	AttributionFailed            AttributionStatus = "failed"
)

type AttributionOutcome struct {
	Status     AttributionStatus
	ReferrerID uint64
	Amount     decimal.Decimal
	Err        error
}

// RewardService credits the fixed first-open bonus to a user's direct
// referrer. Levels 2 and 3 never receive one-time rewards; they participate
// only in the daily commission batch.
type RewardService struct {
	Repo   repository.Repository
	Rates  *RateService
	Logger *zap.Logger
}

// AttributeFirstOpen fires after an investment is created. It is best-effort
// by contract: every failure path is folded into the outcome, never returned
// as an error to the position-open request.
func (s *RewardService) AttributeFirstOpen(ctx context.Context, owner *models.User, inv *models.Investment) AttributionOutcome {
	if s == nil || s.Repo == nil || owner == nil || inv == nil {
		return AttributionOutcome{Status: AttributionFailed}
	}
	if owner.ReferredBy == nil {
		return AttributionOutcome{Status: AttributionSkippedNoReferrer}
	}

	referrer, err := s.Repo.GetUserByID(ctx, *owner.ReferredBy)
	if err != nil {
		return AttributionOutcome{Status: AttributionFailed, Err: err}
	}
	if referrer == nil {
		return AttributionOutcome{Status: AttributionSkippedNoReferrer}
	}

	// First-open check: any other position in this pair, regardless of
	// status, means the bonus was already earnable before.
	hasOther, err := s.Repo.HasOtherInvestmentInPair(ctx, owner.ID, inv.Pair, inv.ID)
	if err != nil {
		return AttributionOutcome{Status: AttributionFailed, ReferrerID: referrer.ID, Err: err}
	}
	if hasOther {
		return AttributionOutcome{Status: AttributionSkippedNotFirst, ReferrerID: referrer.ID}
	}

	rates, err := s.Rates.Current(ctx)
	if err != nil {
		return AttributionOutcome{Status: AttributionFailed, ReferrerID: referrer.ID, Err: err}
	}
	reward := rates.OneTimeRewardFor(inv.Pair)
	if reward.LessThanOrEqual(decimal.Zero) {
		return AttributionOutcome{Status: AttributionSkippedUnmapped, ReferrerID: referrer.ID}
	}

	record := &models.ReferralRecord{
		ReferrerID: referrer.ID,
		ReferredID: owner.ID,
		Level:      1,
		Kind:       models.RewardKindOneTime,
		Pair:       inv.Pair,
		Amount:     reward,
		Rate:       decimal.NewFromInt(1),
		BaseAmount: reward,
	}
	if _, err := s.Repo.InsertReferralRecord(ctx, record); err != nil {
		return AttributionOutcome{Status: AttributionFailed, ReferrerID: referrer.ID, Err: err}
	}
	if err := s.Repo.IncrementBalance(ctx, referrer.ID, reward); err != nil {
		return AttributionOutcome{Status: AttributionFailed, ReferrerID: referrer.ID, Err: err}
	}

	if s.Logger != nil {
		s.Logger.Info("one-time referral reward credited",
			zap.Uint64("referrer_id", referrer.ID),
			zap.Uint64("referred_id", owner.ID),
			zap.String("pair", inv.Pair),
			zap.String("amount", reward.String()),
		)
	}
	return AttributionOutcome{Status: AttributionCredited, ReferrerID: referrer.ID, Amount: reward}
}
