package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fxvest/internal/models"
	"fxvest/internal/repository"
)

type InvestmentService struct {
	Repo   repository.Repository
	Reward *RewardService
	Logger *zap.Logger
}

type OpenInput struct {
	Pair     string
	Amount   decimal.Decimal
	DailyROI decimal.Decimal
}

// Open debits the owner's balance and creates an active position. The
// one-time referral reward is attempted afterwards as a best-effort side
// channel: its failure is logged and never surfaced to the caller.
func (s *InvestmentService) Open(ctx context.Context, userID uint64, in OpenInput) (*models.Investment, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrValidation
	}
	in.Pair = strings.TrimSpace(in.Pair)
	if in.Pair == "" || in.Amount.LessThanOrEqual(decimal.Zero) || in.DailyROI.IsNegative() {
		return nil, ErrValidation
	}

	owner, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrNotFound
	}

	debited, err := s.Repo.DebitBalanceIfSufficient(ctx, userID, in.Amount)
	if err != nil {
		return nil, err
	}
	if !debited {
		return nil, ErrInsufficientBalance
	}

	inv := &models.Investment{
		UserID:       userID,
		Pair:         in.Pair,
		Amount:       in.Amount,
		DailyROI:     in.DailyROI,
		EntryPrice:   decimal.NewFromInt(1),
		CurrentPrice: decimal.NewFromInt(1),
		Status:       models.InvestmentStatusActive,
		Profit:       decimal.Zero,
	}
	if err := s.Repo.CreateInvestment(ctx, inv); err != nil {
		// The debit already happened; hand the funds back before failing.
		if refundErr := s.Repo.IncrementBalance(ctx, userID, in.Amount); refundErr != nil && s.Logger != nil {
			s.Logger.Error("refund after failed investment create",
				zap.Uint64("user_id", userID),
				zap.Error(refundErr),
			)
		}
		return nil, err
	}

	outcome := s.Reward.AttributeFirstOpen(ctx, owner, inv)
	if s.Logger != nil {
		switch outcome.Status {
		case AttributionFailed:
			s.Logger.Warn("one-time reward attribution failed",
				zap.Uint64("user_id", userID),
				zap.Uint64("investment_id", inv.ID),
				zap.Error(outcome.Err),
			)
		default:
			s.Logger.Debug("one-time reward attribution",
				zap.Uint64("user_id", userID),
				zap.String("status", string(outcome.Status)),
			)
		}
	}
	return inv, nil
}

// Close transitions an active position to closed and credits principal plus
// accrued profit back to the owner, exactly once.
func (s *InvestmentService) Close(ctx context.Context, userID, id uint64) (*models.Investment, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	inv, err := s.Repo.GetInvestmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.UserID != userID {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	closed, err := s.Repo.MarkInvestmentClosed(ctx, id, userID, now)
	if err != nil {
		return nil, err
	}
	if !closed {
		// Already closed, or raced with another close. Either way the
		// credit must not repeat.
		return nil, ErrNotFound
	}

	payout := inv.Amount.Add(inv.Profit)
	if err := s.Repo.IncrementBalance(ctx, userID, payout); err != nil {
		return nil, err
	}

	inv.Status = models.InvestmentStatusClosed
	inv.ClosedAt = &now
	if s.Logger != nil {
		s.Logger.Info("investment closed",
			zap.Uint64("investment_id", id),
			zap.Uint64("user_id", userID),
			zap.String("payout", payout.String()),
		)
	}
	return inv, nil
}

func (s *InvestmentService) List(ctx context.Context, userID uint64) ([]models.Investment, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListInvestmentsByUser(ctx, userID)
}

// EarningsSummary is a lightweight projection for the earnings endpoint.
type EarningsSummary struct {
	TotalProfit decimal.Decimal `json:"total_profit"`
	ActiveCount int             `json:"active_count"`
}

func (s *InvestmentService) Earnings(ctx context.Context, userID uint64) (EarningsSummary, error) {
	out := EarningsSummary{TotalProfit: decimal.Zero}
	if s == nil || s.Repo == nil {
		return out, nil
	}
	items, err := s.Repo.ListInvestmentsByUser(ctx, userID)
	if err != nil {
		return out, err
	}
	for _, inv := range items {
		out.TotalProfit = out.TotalProfit.Add(inv.Profit)
		if inv.Status == models.InvestmentStatusActive {
			out.ActiveCount++
		}
	}
	out.TotalProfit = out.TotalProfit.Round(2)
	return out, nil
}
