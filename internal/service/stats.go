package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fxvest/internal/models"
	"fxvest/internal/referral"
	"fxvest/internal/repository"
)

// StatsService is the read-side projection over the referral ledger and the
// graph. It has no side effects and is safe to call while the batch runs;
// a concurrent run may or may not be reflected.
type StatsService struct {
	Repo  repository.Repository
	Graph *referral.Graph
}

type LevelCounts struct {
	Level1 int `json:"level1"`
	Level2 int `json:"level2"`
	Level3 int `json:"level3"`
	Total  int `json:"total"`
}

type EarningsTotals struct {
	OneTime decimal.Decimal         `json:"one_time"`
	Daily   decimal.Decimal         `json:"daily"`
	ByLevel map[int]decimal.Decimal `json:"by_level"`
	Total   decimal.Decimal         `json:"total"`
}

type ReferralStats struct {
	Counts   LevelCounts    `json:"counts"`
	Earnings EarningsTotals `json:"earnings"`
}

func (s *StatsService) ReferralStats(ctx context.Context, userID uint64) (ReferralStats, error) {
	out := ReferralStats{
		Earnings: EarningsTotals{
			OneTime: decimal.Zero,
			Daily:   decimal.Zero,
			ByLevel: map[int]decimal.Decimal{},
			Total:   decimal.Zero,
		},
	}
	if s == nil || s.Repo == nil || s.Graph == nil {
		return out, nil
	}

	counts, err := s.Graph.LevelCounts(ctx, userID)
	if err != nil {
		return out, err
	}
	out.Counts = LevelCounts{
		Level1: counts[0],
		Level2: counts[1],
		Level3: counts[2],
		Total:  counts[0] + counts[1] + counts[2],
	}

	rows, err := s.Repo.ReferralEarnings(ctx, userID)
	if err != nil {
		return out, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Total)
		switch row.Kind {
		case models.RewardKindOneTime:
			out.Earnings.OneTime = out.Earnings.OneTime.Add(row.Total)
		case models.RewardKindDailyCommission:
			out.Earnings.Daily = out.Earnings.Daily.Add(row.Total)
		}
		level := out.Earnings.ByLevel[row.Level]
		out.Earnings.ByLevel[row.Level] = level.Add(row.Total)
	}
	out.Earnings.OneTime = out.Earnings.OneTime.Round(2)
	out.Earnings.Daily = out.Earnings.Daily.Round(2)
	out.Earnings.Total = total.Round(2)
	for level, amount := range out.Earnings.ByLevel {
		out.Earnings.ByLevel[level] = amount.Round(2)
	}
	return out, nil
}

// ReferralEntry is one descendant in the flattened history view, with the
// earnings that descendant generated for the caller.
type ReferralEntry struct {
	UserID        uint64          `json:"user_id"`
	Username      string          `json:"username"`
	Phone         string          `json:"phone"`
	Level         int             `json:"level"`
	IsActive      bool            `json:"is_active"`
	JoinedAt      time.Time       `json:"joined_at"`
	ReferralCount int64           `json:"referral_count"`
	OneTime       decimal.Decimal `json:"one_time_rewards"`
	Daily         decimal.Decimal `json:"daily_commissions"`
	Total         decimal.Decimal `json:"total"`
}

func (s *StatsService) ReferralHistory(ctx context.Context, userID uint64) ([]ReferralEntry, error) {
	if s == nil || s.Repo == nil || s.Graph == nil {
		return nil, nil
	}
	levels, err := s.Graph.Descendants(ctx, userID, referral.MaxLevels)
	if err != nil {
		return nil, err
	}

	var entries []ReferralEntry
	for i, users := range levels {
		level := i + 1
		for _, u := range users {
			breakdown, err := s.Repo.ReferralEarningsForReferred(ctx, userID, u.ID)
			if err != nil {
				return nil, err
			}
			count, err := s.Repo.CountUsersByReferrer(ctx, u.ID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ReferralEntry{
				UserID:        u.ID,
				Username:      u.Username,
				Phone:         u.Phone,
				Level:         level,
				IsActive:      u.IsActive,
				JoinedAt:      u.CreatedAt,
				ReferralCount: count,
				OneTime:       breakdown.OneTime.Round(2),
				Daily:         breakdown.Daily.Round(2),
				Total:         breakdown.OneTime.Add(breakdown.Daily).Round(2),
			})
		}
	}
	return entries, nil
}
