package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"fxvest/internal/models"
	"fxvest/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It mirrors the database guards that matter to the services: the dedup-key
// unique index, the balance-sufficiency debit, and the status-transition
// updates on investments and transactions.
type stubRepo struct {
	users        map[uint64]*models.User
	investments  map[uint64]*models.Investment
	records      []models.ReferralRecord
	dedup        map[string]bool
	rates        []models.CommissionRate
	transactions map[uint64]*models.Transaction

	nextUserID       uint64
	nextInvestmentID uint64
	nextRecordID     uint64
	nextRateID       uint64
	nextTxnID        uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		users:        map[uint64]*models.User{},
		investments:  map[uint64]*models.Investment{},
		dedup:        map[string]bool{},
		transactions: map[uint64]*models.Transaction{},
	}
}

func (s *stubRepo) addUser(username, phone, code string, referredBy *uint64) *models.User {
	s.nextUserID++
	u := &models.User{
		ID:           s.nextUserID,
		Username:     username,
		Phone:        phone,
		PasswordHash: "x",
		Balance:      decimal.Zero,
		ReferralCode: code,
		ReferredBy:   referredBy,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u
}

func (s *stubRepo) addInvestment(userID uint64, pair string, amount, dailyROI decimal.Decimal, createdAt time.Time) *models.Investment {
	s.nextInvestmentID++
	inv := &models.Investment{
		ID:           s.nextInvestmentID,
		UserID:       userID,
		Pair:         pair,
		Amount:       amount,
		DailyROI:     dailyROI,
		EntryPrice:   decimal.NewFromInt(1),
		CurrentPrice: decimal.NewFromInt(1),
		Status:       models.InvestmentStatusActive,
		Profit:       decimal.Zero,
		CreatedAt:    createdAt,
	}
	s.investments[inv.ID] = inv
	return inv
}

func (s *stubRepo) seedRates(oneTime map[string]decimal.Decimal, l1, l2, l3 decimal.Decimal) {
	raw, _ := json.Marshal(oneTime)
	s.nextRateID++
	s.rates = append(s.rates, models.CommissionRate{
		ID:             s.nextRateID,
		OneTimeRewards: datatypes.JSON(raw),
		Level1Rate:     l1,
		Level2Rate:     l2,
		Level3Rate:     l3,
		CreatedAt:      time.Now().UTC(),
	})
}

func (s *stubRepo) balance(id uint64) decimal.Decimal {
	if u, ok := s.users[id]; ok {
		return u.Balance
	}
	return decimal.Zero
}

func (s *stubRepo) CreateUser(ctx context.Context, item *models.User) error {
	s.nextUserID++
	item.ID = s.nextUserID
	item.CreatedAt = time.Now().UTC()
	s.users[item.ID] = item
	return nil
}

func (s *stubRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *stubRepo) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	for _, u := range s.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	for _, u := range s.users {
		if u.ReferralCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	for _, u := range s.users {
		if u.ReferralCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) ListUsersByReferrer(ctx context.Context, referrerID uint64) ([]models.User, error) {
	var out []models.User
	for id := uint64(1); id <= s.nextUserID; id++ {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if u.ReferredBy != nil && *u.ReferredBy == referrerID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (s *stubRepo) CountUsersByReferrer(ctx context.Context, referrerID uint64) (int64, error) {
	items, _ := s.ListUsersByReferrer(ctx, referrerID)
	return int64(len(items)), nil
}

func (s *stubRepo) UpdateUsername(ctx context.Context, id uint64, username string) error {
	if u, ok := s.users[id]; ok {
		u.Username = username
	}
	return nil
}

func (s *stubRepo) IncrementBalance(ctx context.Context, userID uint64, delta decimal.Decimal) error {
	if u, ok := s.users[userID]; ok {
		u.Balance = u.Balance.Add(delta)
	}
	return nil
}

func (s *stubRepo) DebitBalanceIfSufficient(ctx context.Context, userID uint64, amount decimal.Decimal) (bool, error) {
	u, ok := s.users[userID]
	if !ok || u.Balance.LessThan(amount) {
		return false, nil
	}
	u.Balance = u.Balance.Sub(amount)
	return true, nil
}

func (s *stubRepo) CreateInvestment(ctx context.Context, item *models.Investment) error {
	s.nextInvestmentID++
	item.ID = s.nextInvestmentID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.investments[item.ID] = item
	return nil
}

func (s *stubRepo) GetInvestmentByID(ctx context.Context, id uint64) (*models.Investment, error) {
	inv, ok := s.investments[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (s *stubRepo) ListInvestmentsByUser(ctx context.Context, userID uint64) ([]models.Investment, error) {
	var out []models.Investment
	for id := uint64(1); id <= s.nextInvestmentID; id++ {
		inv, ok := s.investments[id]
		if !ok {
			continue
		}
		if inv.UserID == userID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (s *stubRepo) HasOtherInvestmentInPair(ctx context.Context, userID uint64, pair string, excludeID uint64) (bool, error) {
	for _, inv := range s.investments {
		if inv.UserID == userID && inv.Pair == pair && inv.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) ListActiveInvestmentsCreatedBefore(ctx context.Context, before time.Time) ([]models.Investment, error) {
	var out []models.Investment
	for id := uint64(1); id <= s.nextInvestmentID; id++ {
		inv, ok := s.investments[id]
		if !ok {
			continue
		}
		if inv.Status == models.InvestmentStatusActive && inv.CreatedAt.Before(before) {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (s *stubRepo) MarkInvestmentClosed(ctx context.Context, id, userID uint64, closedAt time.Time) (bool, error) {
	inv, ok := s.investments[id]
	if !ok || inv.UserID != userID || inv.Status != models.InvestmentStatusActive {
		return false, nil
	}
	inv.Status = models.InvestmentStatusClosed
	inv.ClosedAt = &closedAt
	return true, nil
}

func (s *stubRepo) InsertReferralRecord(ctx context.Context, item *models.ReferralRecord) (bool, error) {
	if item.DedupKey != nil {
		if s.dedup[*item.DedupKey] {
			return false, nil
		}
		s.dedup[*item.DedupKey] = true
	}
	s.nextRecordID++
	item.ID = s.nextRecordID
	item.CreatedAt = time.Now().UTC()
	s.records = append(s.records, *item)
	return true, nil
}

func (s *stubRepo) HasDailyCommission(ctx context.Context, referrerID, referredID uint64, day time.Time) (bool, error) {
	return s.dedup[models.CommissionDedupKey(referrerID, referredID, day)], nil
}

func (s *stubRepo) ReferralEarnings(ctx context.Context, referrerID uint64) ([]repository.EarningsRow, error) {
	type bucket struct {
		kind  string
		level int
	}
	totals := map[bucket]decimal.Decimal{}
	for _, rec := range s.records {
		if rec.ReferrerID != referrerID {
			continue
		}
		b := bucket{kind: rec.Kind, level: rec.Level}
		totals[b] = totals[b].Add(rec.Amount)
	}
	var out []repository.EarningsRow
	for b, total := range totals {
		out = append(out, repository.EarningsRow{Kind: b.kind, Level: b.level, Total: total})
	}
	return out, nil
}

func (s *stubRepo) ReferralEarningsForReferred(ctx context.Context, referrerID, referredID uint64) (repository.EarningsBreakdown, error) {
	out := repository.EarningsBreakdown{OneTime: decimal.Zero, Daily: decimal.Zero}
	for _, rec := range s.records {
		if rec.ReferrerID != referrerID || rec.ReferredID != referredID {
			continue
		}
		switch rec.Kind {
		case models.RewardKindOneTime:
			out.OneTime = out.OneTime.Add(rec.Amount)
		case models.RewardKindDailyCommission:
			out.Daily = out.Daily.Add(rec.Amount)
		}
	}
	return out, nil
}

func (s *stubRepo) InsertCommissionRate(ctx context.Context, item *models.CommissionRate) error {
	s.nextRateID++
	item.ID = s.nextRateID
	item.CreatedAt = time.Now().UTC()
	s.rates = append(s.rates, *item)
	return nil
}

func (s *stubRepo) LatestCommissionRate(ctx context.Context) (*models.CommissionRate, error) {
	if len(s.rates) == 0 {
		return nil, nil
	}
	cp := s.rates[len(s.rates)-1]
	return &cp, nil
}

func (s *stubRepo) CountCommissionRates(ctx context.Context) (int64, error) {
	return int64(len(s.rates)), nil
}

func (s *stubRepo) CreateTransaction(ctx context.Context, item *models.Transaction) error {
	s.nextTxnID++
	item.ID = s.nextTxnID
	item.CreatedAt = time.Now().UTC()
	s.transactions[item.ID] = item
	return nil
}

func (s *stubRepo) GetTransactionByID(ctx context.Context, id uint64) (*models.Transaction, error) {
	txn, ok := s.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *txn
	return &cp, nil
}

func (s *stubRepo) ListTransactionsByUser(ctx context.Context, userID uint64) ([]models.Transaction, error) {
	var out []models.Transaction
	for id := uint64(1); id <= s.nextTxnID; id++ {
		txn, ok := s.transactions[id]
		if !ok {
			continue
		}
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (s *stubRepo) CompleteTransaction(ctx context.Context, id, userID uint64) (bool, error) {
	txn, ok := s.transactions[id]
	if !ok || txn.UserID != userID || txn.Status != models.TransactionStatusPending {
		return false, nil
	}
	txn.Status = models.TransactionStatusCompleted
	return true, nil
}

var _ repository.Repository = (*stubRepo)(nil)
