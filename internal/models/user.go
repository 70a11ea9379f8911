package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(100);not null"`
	Phone        string `gorm:"type:varchar(32);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`

	// Balance is only ever mutated through atomic SQL increments,
	// never read-modify-write in Go.
	Balance decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	ReferralCode string  `gorm:"type:varchar(12);not null;uniqueIndex"`
	ReferredBy   *uint64 `gorm:"index"`

	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
