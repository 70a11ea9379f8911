package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// CommissionRate is a versioned rate table. Rows are only ever inserted;
// the batch reads the most recently created one, so rate changes apply to
// future accrual days without rewriting history.
type CommissionRate struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// OneTimeRewards maps a forex pair to its fixed first-open bonus.
	OneTimeRewards datatypes.JSON `gorm:"type:jsonb;not null"`

	Level1Rate decimal.Decimal `gorm:"type:numeric(10,6);not null"`
	Level2Rate decimal.Decimal `gorm:"type:numeric(10,6);not null"`
	Level3Rate decimal.Decimal `gorm:"type:numeric(10,6);not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (CommissionRate) TableName() string {
	return "commission_rates"
}

// RateForLevel returns the recurring commission rate for level 1..3,
// zero for anything else.
func (r *CommissionRate) RateForLevel(level int) decimal.Decimal {
	switch level {
	case 1:
		return r.Level1Rate
	case 2:
		return r.Level2Rate
	case 3:
		return r.Level3Rate
	default:
		return decimal.Zero
	}
}

// OneTimeRewardFor returns the fixed bonus for a pair, zero when unmapped.
func (r *CommissionRate) OneTimeRewardFor(pair string) decimal.Decimal {
	if len(r.OneTimeRewards) == 0 {
		return decimal.Zero
	}
	var table map[string]decimal.Decimal
	if err := json.Unmarshal(r.OneTimeRewards, &table); err != nil {
		return decimal.Zero
	}
	return table[pair]
}
