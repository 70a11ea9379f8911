package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fxvest/internal/referral"
)

func newStats(repo *stubRepo) *StatsService {
	return &StatsService{Repo: repo, Graph: &referral.Graph{Repo: repo}}
}

func TestReferralStatsAfterBatch(t *testing.T) {
	repo := newStubRepo()
	defaultRates(repo)

	a := repo.addUser("a", "100", "AAAAAA", nil)
	b := repo.addUser("b", "200", "BBBBBB", &a.ID)
	c := repo.addUser("c", "300", "CCCCCC", &b.ID)
	d := repo.addUser("d", "400", "DDDDDD", &c.ID)

	// D's first EUR/USD position credits C a one-time bonus.
	inv := repo.addInvestment(d.ID, "EUR/USD", decimal.NewFromInt(1000), decimal.NewFromInt(2),
		time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC))
	out := newRewards(repo).AttributeFirstOpen(context.Background(), repo.users[d.ID], inv)
	if out.Status != AttributionCredited {
		t.Fatalf("attribution status = %q", out.Status)
	}

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if _, err := newBatch(repo).RunForDay(context.Background(), day); err != nil {
		t.Fatalf("RunForDay: %v", err)
	}

	stats, err := newStats(repo).ReferralStats(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("ReferralStats: %v", err)
	}
	if stats.Counts.Level1 != 1 || stats.Counts.Total != 1 {
		t.Fatalf("counts = %+v", stats.Counts)
	}
	if !stats.Earnings.OneTime.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("one-time = %s, want 100", stats.Earnings.OneTime)
	}
	if !stats.Earnings.Daily.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("daily = %s, want 2", stats.Earnings.Daily)
	}
	if !stats.Earnings.Total.Equal(decimal.NewFromInt(102)) {
		t.Fatalf("total = %s, want 102", stats.Earnings.Total)
	}

	// A sees the whole chain below: B at level 1, C at level 2, D at level 3.
	aStats, err := newStats(repo).ReferralStats(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ReferralStats(a): %v", err)
	}
	if aStats.Counts.Level1 != 1 || aStats.Counts.Level2 != 1 || aStats.Counts.Level3 != 1 || aStats.Counts.Total != 3 {
		t.Fatalf("counts for a = %+v", aStats.Counts)
	}
	if !aStats.Earnings.Daily.Equal(decimal.RequireFromString("0.4")) {
		t.Fatalf("daily for a = %s, want 0.4", aStats.Earnings.Daily)
	}
	if !aStats.Earnings.ByLevel[3].Equal(decimal.RequireFromString("0.4")) {
		t.Fatalf("by-level for a = %v", aStats.Earnings.ByLevel)
	}
}

func TestReferralHistory(t *testing.T) {
	repo := newStubRepo()
	defaultRates(repo)

	a := repo.addUser("a", "100", "AAAAAA", nil)
	b := repo.addUser("b", "200", "BBBBBB", &a.ID)
	c := repo.addUser("c", "300", "CCCCCC", &b.ID)

	inv := repo.addInvestment(b.ID, "EUR/USD", decimal.NewFromInt(1000), decimal.NewFromInt(2), time.Now().UTC())
	out := newRewards(repo).AttributeFirstOpen(context.Background(), repo.users[b.ID], inv)
	if out.Status != AttributionCredited {
		t.Fatalf("attribution status = %q", out.Status)
	}

	entries, err := newStats(repo).ReferralHistory(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("ReferralHistory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	first := entries[0]
	if first.UserID != b.ID || first.Level != 1 {
		t.Fatalf("first entry = %+v", first)
	}
	if first.ReferralCount != 1 {
		t.Fatalf("first entry referral count = %d, want 1", first.ReferralCount)
	}
	if !first.OneTime.Equal(decimal.NewFromInt(100)) || !first.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("first entry earnings = %+v", first)
	}

	second := entries[1]
	if second.UserID != c.ID || second.Level != 2 {
		t.Fatalf("second entry = %+v", second)
	}
	if !second.Total.IsZero() {
		t.Fatalf("second entry total = %s, want 0", second.Total)
	}
}

func TestReferralStatsEmpty(t *testing.T) {
	repo := newStubRepo()
	u := repo.addUser("solo", "100", "AAAAAA", nil)

	stats, err := newStats(repo).ReferralStats(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("ReferralStats: %v", err)
	}
	if stats.Counts.Total != 0 || !stats.Earnings.Total.IsZero() {
		t.Fatalf("stats = %+v", stats)
	}
}
