package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fxvest/internal/models"
	"fxvest/internal/referral"
	"fxvest/internal/repository"
)

// CommissionBatch distributes recurring commissions for one accrual day.
// It is re-entrant: the (referrer, referred, day) dedup key on the ledger
// makes a re-run for the same day a no-op for already-paid triples.
type CommissionBatch struct {
	Repo   repository.Repository
	Graph  *referral.Graph
	Rates  *RateService
	Logger *zap.Logger
}

type BatchResult struct {
	Day       time.Time
	Positions int
	Credited  int
	Skipped   int
	Failed    int
}

// RunDailyCommissions is the scheduler entry point: it settles the previous
// full UTC calendar day.
func (b *CommissionBatch) RunDailyCommissions(ctx context.Context) (BatchResult, error) {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	return b.RunForDay(ctx, yesterday)
}

// RunForDay settles commissions for the UTC calendar day containing day.
// A missing rate config is fatal for the whole run; any per-position failure
// is logged, counted, and skipped.
func (b *CommissionBatch) RunForDay(ctx context.Context, day time.Time) (BatchResult, error) {
	start := day.UTC().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	result := BatchResult{Day: start}

	if b == nil || b.Repo == nil || b.Graph == nil {
		return result, ErrNoRateConfig
	}

	// Rates are resolved once and passed through the whole run, so a config
	// change mid-run cannot split one day across two rate versions.
	rates, err := b.Rates.Current(ctx)
	if err != nil {
		return result, err
	}

	// Every still-active position accrues daily, not just ones opened within
	// the window.
	positions, err := b.Repo.ListActiveInvestmentsCreatedBefore(ctx, end)
	if err != nil {
		return result, err
	}
	result.Positions = len(positions)

	for _, inv := range positions {
		credited, skipped, err := b.settlePosition(ctx, rates, inv, start)
		result.Credited += credited
		result.Skipped += skipped
		if err != nil {
			result.Failed++
			if b.Logger != nil {
				b.Logger.Warn("commission settlement failed for position",
					zap.Uint64("investment_id", inv.ID),
					zap.Uint64("user_id", inv.UserID),
					zap.Error(err),
				)
			}
		}
	}

	if b.Logger != nil {
		b.Logger.Info("daily commission batch complete",
			zap.Time("day", start),
			zap.Int("positions", result.Positions),
			zap.Int("credited", result.Credited),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

// settlePosition pays up to three referrer levels for one position's daily
// yield. A missing referrer at any level ends the ascent: there is no
// level-3 commission without a level-2 referrer.
func (b *CommissionBatch) settlePosition(ctx context.Context, rates *models.CommissionRate, inv models.Investment, day time.Time) (credited, skipped int, err error) {
	yield := inv.Amount.Mul(inv.DailyROI).Div(decimal.NewFromInt(100))
	if yield.LessThanOrEqual(decimal.Zero) {
		return 0, 0, nil
	}

	chain, err := b.Graph.Ancestors(ctx, inv.UserID, referral.MaxLevels)
	if err != nil {
		return 0, 0, err
	}

	for _, ancestor := range chain {
		exists, err := b.Repo.HasDailyCommission(ctx, ancestor.User.ID, inv.UserID, day)
		if err != nil {
			return credited, skipped, err
		}
		if exists {
			skipped++
			continue
		}

		rate := rates.RateForLevel(ancestor.Level)
		commission := yield.Mul(rate)
		key := models.CommissionDedupKey(ancestor.User.ID, inv.UserID, day)
		accrual := day
		record := &models.ReferralRecord{
			ReferrerID:  ancestor.User.ID,
			ReferredID:  inv.UserID,
			Level:       ancestor.Level,
			Kind:        models.RewardKindDailyCommission,
			Amount:      commission,
			Rate:        rate,
			BaseAmount:  yield,
			AccrualDate: &accrual,
			DedupKey:    &key,
		}
		inserted, err := b.Repo.InsertReferralRecord(ctx, record)
		if err != nil {
			return credited, skipped, err
		}
		if !inserted {
			// A concurrent run won the insert; it also owns the credit.
			skipped++
			continue
		}
		if err := b.Repo.IncrementBalance(ctx, ancestor.User.ID, commission); err != nil {
			return credited, skipped, err
		}
		credited++
	}
	return credited, skipped, nil
}
