package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fxvest/internal/models"
	"fxvest/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Users ------------------------------------------------------------------

func (s *Store) CreateUser(ctx context.Context, item *models.User) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).First(&item, "phone = ?", phone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, nil
	}
	var item models.User
	err := s.db.WithContext(ctx).First(&item, "referral_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("referral_code = ?", strings.TrimSpace(code)).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) ListUsersByReferrer(ctx context.Context, referrerID uint64) ([]models.User, error) {
	if s == nil || s.db == nil || referrerID == 0 {
		return nil, nil
	}
	var items []models.User
	err := s.db.WithContext(ctx).
		Where("referred_by = ?", referrerID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountUsersByReferrer(ctx context.Context, referrerID uint64) (int64, error) {
	if s == nil || s.db == nil || referrerID == 0 {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("referred_by = ?", referrerID).
		Count(&count).Error
	return count, err
}

func (s *Store) UpdateUsername(ctx context.Context, id uint64, username string) error {
	if s == nil || s.db == nil || id == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"username":   username,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (s *Store) IncrementBalance(ctx context.Context, userID uint64, delta decimal.Decimal) error {
	if s == nil || s.db == nil || userID == 0 || delta.IsZero() {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta)).Error
}

func (s *Store) DebitBalanceIfSufficient(ctx context.Context, userID uint64, amount decimal.Decimal) (bool, error) {
	if s == nil || s.db == nil || userID == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	return res.RowsAffected > 0, res.Error
}

// --- Investments ------------------------------------------------------------

func (s *Store) CreateInvestment(ctx context.Context, item *models.Investment) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetInvestmentByID(ctx context.Context, id uint64) (*models.Investment, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Investment
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListInvestmentsByUser(ctx context.Context, userID uint64) ([]models.Investment, error) {
	if s == nil || s.db == nil || userID == 0 {
		return nil, nil
	}
	var items []models.Investment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) HasOtherInvestmentInPair(ctx context.Context, userID uint64, pair string, excludeID uint64) (bool, error) {
	if s == nil || s.db == nil || userID == 0 {
		return false, nil
	}
	var count int64
	query := s.db.WithContext(ctx).
		Model(&models.Investment{}).
		Where("user_id = ? AND pair = ?", userID, pair)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListActiveInvestmentsCreatedBefore(ctx context.Context, before time.Time) ([]models.Investment, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Investment
	err := s.db.WithContext(ctx).
		Where("status = ?", models.InvestmentStatusActive).
		Where("created_at < ?", before).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) MarkInvestmentClosed(ctx context.Context, id, userID uint64, closedAt time.Time) (bool, error) {
	if s == nil || s.db == nil || id == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Investment{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.InvestmentStatusActive).
		Updates(map[string]any{
			"status":     models.InvestmentStatusClosed,
			"closed_at":  closedAt,
			"updated_at": closedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// --- Referral ledger --------------------------------------------------------

func (s *Store) InsertReferralRecord(ctx context.Context, item *models.ReferralRecord) (bool, error) {
	if s == nil || s.db == nil || item == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dedup_key"}},
			DoNothing: true,
		}).
		Create(item)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) HasDailyCommission(ctx context.Context, referrerID, referredID uint64, day time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	key := models.CommissionDedupKey(referrerID, referredID, day)
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.ReferralRecord{}).
		Where("dedup_key = ?", key).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) ReferralEarnings(ctx context.Context, referrerID uint64) ([]repository.EarningsRow, error) {
	if s == nil || s.db == nil || referrerID == 0 {
		return nil, nil
	}
	var rows []repository.EarningsRow
	err := s.db.WithContext(ctx).
		Model(&models.ReferralRecord{}).
		Select("kind AS kind, level AS level, COALESCE(SUM(amount),0) AS total").
		Where("referrer_id = ?", referrerID).
		Group("kind, level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) ReferralEarningsForReferred(ctx context.Context, referrerID, referredID uint64) (repository.EarningsBreakdown, error) {
	out := repository.EarningsBreakdown{OneTime: decimal.Zero, Daily: decimal.Zero}
	if s == nil || s.db == nil || referrerID == 0 || referredID == 0 {
		return out, nil
	}
	var rows []repository.EarningsRow
	err := s.db.WithContext(ctx).
		Model(&models.ReferralRecord{}).
		Select("kind AS kind, COALESCE(SUM(amount),0) AS total").
		Where("referrer_id = ? AND referred_id = ?", referrerID, referredID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return out, err
	}
	for _, row := range rows {
		switch row.Kind {
		case models.RewardKindOneTime:
			out.OneTime = row.Total
		case models.RewardKindDailyCommission:
			out.Daily = row.Total
		}
	}
	return out, nil
}

// --- Commission rates -------------------------------------------------------

func (s *Store) InsertCommissionRate(ctx context.Context, item *models.CommissionRate) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) LatestCommissionRate(ctx context.Context) (*models.CommissionRate, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.CommissionRate
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) CountCommissionRates(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.CommissionRate{}).Count(&count).Error
	return count, err
}

// --- Transactions -----------------------------------------------------------

func (s *Store) CreateTransaction(ctx context.Context, item *models.Transaction) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetTransactionByID(ctx context.Context, id uint64) (*models.Transaction, error) {
	if s == nil || s.db == nil || id == 0 {
		return nil, nil
	}
	var item models.Transaction
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListTransactionsByUser(ctx context.Context, userID uint64) ([]models.Transaction, error) {
	if s == nil || s.db == nil || userID == 0 {
		return nil, nil
	}
	var items []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CompleteTransaction(ctx context.Context, id, userID uint64) (bool, error) {
	if s == nil || s.db == nil || id == 0 {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.TransactionStatusPending).
		Updates(map[string]any{
			"status":     models.TransactionStatusCompleted,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected > 0, res.Error
}
