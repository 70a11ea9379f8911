package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"fxvest/internal/models"
)

// Repository is the persistence surface shared by handlers and services.
// Get* methods return (nil, nil) when the row does not exist.
type Repository interface {
	// Users
	CreateUser(ctx context.Context, item *models.User) error
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*models.User, error)
	ReferralCodeExists(ctx context.Context, code string) (bool, error)
	ListUsersByReferrer(ctx context.Context, referrerID uint64) ([]models.User, error)
	CountUsersByReferrer(ctx context.Context, referrerID uint64) (int64, error)
	UpdateUsername(ctx context.Context, id uint64, username string) error

	// Balance mutation is a single atomic SQL increment. There is no
	// read-then-write path on purpose: concurrent commission postings and
	// user-initiated changes reconcile through increment atomicity alone.
	IncrementBalance(ctx context.Context, userID uint64, delta decimal.Decimal) error
	// DebitBalanceIfSufficient decrements only when the guarded WHERE clause
	// sees enough balance; false means insufficient funds.
	DebitBalanceIfSufficient(ctx context.Context, userID uint64, amount decimal.Decimal) (bool, error)

	// Investments
	CreateInvestment(ctx context.Context, item *models.Investment) error
	GetInvestmentByID(ctx context.Context, id uint64) (*models.Investment, error)
	ListInvestmentsByUser(ctx context.Context, userID uint64) ([]models.Investment, error)
	HasOtherInvestmentInPair(ctx context.Context, userID uint64, pair string, excludeID uint64) (bool, error)
	ListActiveInvestmentsCreatedBefore(ctx context.Context, before time.Time) ([]models.Investment, error)
	// MarkInvestmentClosed flips active→closed for the owner's investment in a
	// single guarded UPDATE; false means no open investment matched.
	MarkInvestmentClosed(ctx context.Context, id, userID uint64, closedAt time.Time) (bool, error)

	// Referral ledger (append-only)
	// InsertReferralRecord returns false when the dedup key already exists
	// (ON CONFLICT DO NOTHING), in which case nothing was written.
	InsertReferralRecord(ctx context.Context, item *models.ReferralRecord) (bool, error)
	HasDailyCommission(ctx context.Context, referrerID, referredID uint64, day time.Time) (bool, error)
	ReferralEarnings(ctx context.Context, referrerID uint64) ([]EarningsRow, error)
	ReferralEarningsForReferred(ctx context.Context, referrerID, referredID uint64) (EarningsBreakdown, error)

	// Commission rates (versioned, insert-only)
	InsertCommissionRate(ctx context.Context, item *models.CommissionRate) error
	LatestCommissionRate(ctx context.Context) (*models.CommissionRate, error)
	CountCommissionRates(ctx context.Context) (int64, error)

	// Transactions
	CreateTransaction(ctx context.Context, item *models.Transaction) error
	GetTransactionByID(ctx context.Context, id uint64) (*models.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID uint64) ([]models.Transaction, error)
	// CompleteTransaction flips pending→completed for the owner's transaction;
	// false means no pending transaction matched.
	CompleteTransaction(ctx context.Context, id, userID uint64) (bool, error)
}

// EarningsRow is one (kind, level) bucket of a referrer's attribution total.
type EarningsRow struct {
	Kind  string
	Level int
	Total decimal.Decimal
}

// EarningsBreakdown sums one referred user's contribution to a referrer.
type EarningsBreakdown struct {
	OneTime decimal.Decimal
	Daily   decimal.Decimal
}
