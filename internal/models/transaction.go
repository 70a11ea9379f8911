package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionTypeDeposit = "deposit"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
)

type Transaction struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`
	Type   string `gorm:"type:varchar(20);not null"`

	Amount decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	Status string          `gorm:"type:varchar(20);not null;default:'pending';index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "transactions"
}
