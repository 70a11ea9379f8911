package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RewardKindOneTime         = "one_time"
	RewardKindDailyCommission = "daily_commission"
)

// ReferralRecord is the append-only ledger of referral attributions.
// Rows are never updated or deleted.
type ReferralRecord struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	ReferrerID uint64 `gorm:"not null;index"`
	ReferredID uint64 `gorm:"not null;index"`
	Level      int    `gorm:"not null"`
	Kind       string `gorm:"type:varchar(20);not null;index"`

	// Pair is set for one_time records only.
	Pair string `gorm:"type:varchar(20)"`

	Amount decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	// Rate and BaseAmount record the inputs used at attribution time so the
	// ledger stays auditable across rate-config versions. For one_time the
	// base is the fixed reward; for daily_commission it is the position's
	// daily yield for the accrual day.
	Rate       decimal.Decimal `gorm:"type:numeric(20,10);not null"`
	BaseAmount decimal.Decimal `gorm:"type:numeric(30,10);not null"`

	// AccrualDate and DedupKey are set for daily_commission records only.
	// DedupKey is unique; NULLs (one_time rows) are exempt, so the index
	// enforces at most one daily commission per (referrer, referred, day).
	AccrualDate *time.Time `gorm:"type:date;index"`
	DedupKey    *string    `gorm:"type:varchar(64);uniqueIndex"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ReferralRecord) TableName() string {
	return "referral_records"
}

// CommissionDedupKey builds the (referrer, referred, accrual-day) identity
// that makes the daily batch idempotent.
func CommissionDedupKey(referrerID, referredID uint64, day time.Time) string {
	return fmt.Sprintf("%d:%d:%s", referrerID, referredID, day.UTC().Format("2006-01-02"))
}
