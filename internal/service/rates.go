package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"fxvest/internal/config"
	"fxvest/internal/models"
	"fxvest/internal/repository"
)

// RateService owns the versioned commission rate table. Rates are insert-only;
// the newest row wins for future accrual days and history keeps the rates it
// was written with.
type RateService struct {
	Repo repository.Repository
}

// EnsureDefaultRates seeds the first rate row from config when the table is
// empty. Run once at startup.
func (s *RateService) EnsureDefaultRates(ctx context.Context, cfg config.RatesConfig) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	count, err := s.Repo.CountCommissionRates(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	rewards := make(map[string]decimal.Decimal, len(cfg.OneTimeRewards))
	for pair, amount := range cfg.OneTimeRewards {
		rewards[pair] = decimal.NewFromFloat(amount)
	}
	raw, err := json.Marshal(rewards)
	if err != nil {
		return err
	}

	return s.Repo.InsertCommissionRate(ctx, &models.CommissionRate{
		OneTimeRewards: datatypes.JSON(raw),
		Level1Rate:     decimal.NewFromFloat(cfg.Level1),
		Level2Rate:     decimal.NewFromFloat(cfg.Level2),
		Level3Rate:     decimal.NewFromFloat(cfg.Level3),
	})
}

// Current resolves the most recently created rate config.
func (s *RateService) Current(ctx context.Context) (*models.CommissionRate, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNoRateConfig
	}
	rates, err := s.Repo.LatestCommissionRate(ctx)
	if err != nil {
		return nil, err
	}
	if rates == nil {
		return nil, ErrNoRateConfig
	}
	return rates, nil
}

// Publish inserts a new rate version taking effect for future accrual days.
func (s *RateService) Publish(ctx context.Context, oneTime map[string]decimal.Decimal, level1, level2, level3 decimal.Decimal) (*models.CommissionRate, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrValidation
	}
	if len(oneTime) == 0 || level1.IsNegative() || level2.IsNegative() || level3.IsNegative() {
		return nil, ErrValidation
	}
	raw, err := json.Marshal(oneTime)
	if err != nil {
		return nil, err
	}
	item := &models.CommissionRate{
		OneTimeRewards: datatypes.JSON(raw),
		Level1Rate:     level1,
		Level2Rate:     level2,
		Level3Rate:     level3,
	}
	if err := s.Repo.InsertCommissionRate(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
