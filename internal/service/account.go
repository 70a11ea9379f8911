package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fxvest/internal/models"
	"fxvest/internal/referral"
	"fxvest/internal/repository"
)

// codeRetries bounds referral-code collision retries at registration.
const codeRetries = 5

type AccountService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

type RegisterInput struct {
	Username     string
	Phone        string
	Password     string
	ReferralCode string
}

func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrValidation
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ReferralCode = strings.TrimSpace(in.ReferralCode)
	if in.Username == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrValidation
	}

	existing, err := s.Repo.GetUserByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicatePhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	// An unknown referral code is not an error: the user registers with no
	// referrer. Only a resolvable code links the forest.
	var referredBy *uint64
	if in.ReferralCode != "" {
		referrer, err := s.Repo.GetUserByReferralCode(ctx, in.ReferralCode)
		if err != nil {
			return nil, err
		}
		if referrer != nil {
			id := referrer.ID
			referredBy = &id
		}
	}

	user := &models.User{
		Username:     in.Username,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Balance:      decimal.Zero,
		ReferralCode: code,
		ReferredBy:   referredBy,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered",
			zap.Uint64("user_id", user.ID),
			zap.Bool("referred", referredBy != nil),
		)
	}
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, phone, password string) (*models.User, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrInvalidCredentials
	}
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, ErrValidation
	}
	user, err := s.Repo.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) Profile(ctx context.Context, userID uint64) (*models.User, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID uint64, username string) (*models.User, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrValidation
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if err := s.Repo.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}
	user.Username = username
	return user, nil
}

// Deposit creates a pending deposit transaction. Nothing is credited until
// confirmation.
func (s *AccountService) Deposit(ctx context.Context, userID uint64, amount decimal.Decimal) (*models.Transaction, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrValidation
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrValidation
	}
	txn := &models.Transaction{
		UserID: userID,
		Type:   models.TransactionTypeDeposit,
		Amount: amount,
		Status: models.TransactionStatusPending,
	}
	if err := s.Repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ConfirmDeposit completes a pending deposit and credits the balance. The
// pending→completed guard makes double confirmation a no-op error, so the
// credit happens at most once.
func (s *AccountService) ConfirmDeposit(ctx context.Context, userID, txnID uint64) (*models.Transaction, error) {
	if s == nil || s.Repo == nil {
		return nil, ErrNotFound
	}
	txn, err := s.Repo.GetTransactionByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	if txn == nil || txn.UserID != userID {
		return nil, ErrNotFound
	}
	completed, err := s.Repo.CompleteTransaction(ctx, txnID, userID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, ErrNotFound
	}
	if err := s.Repo.IncrementBalance(ctx, userID, txn.Amount); err != nil {
		return nil, err
	}
	txn.Status = models.TransactionStatusCompleted
	return txn, nil
}

func (s *AccountService) Transactions(ctx context.Context, userID uint64) ([]models.Transaction, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	return s.Repo.ListTransactionsByUser(ctx, userID)
}

func (s *AccountService) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < codeRetries; i++ {
		code := referral.NewCode()
		exists, err := s.Repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrInvalidReferral
}
