package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InvestmentStatusActive = "active"
	InvestmentStatusClosed = "closed"
)

type Investment struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`
	Pair   string `gorm:"type:varchar(20);not null;index"`

	Amount decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	// DailyROI is a percentage: 2 means 2% of Amount per day.
	DailyROI decimal.Decimal `gorm:"column:daily_roi;type:numeric(10,4);not null;default:0"`

	EntryPrice   decimal.Decimal `gorm:"type:numeric(20,10);not null;default:1"`
	CurrentPrice decimal.Decimal `gorm:"type:numeric(20,10);not null;default:1"`

	Status string          `gorm:"type:varchar(10);not null;default:'active';index"`
	Profit decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	ClosedAt  *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Investment) TableName() string {
	return "investments"
}
