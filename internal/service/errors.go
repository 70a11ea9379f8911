package service

import "errors"

var (
	ErrValidation          = errors.New("missing or invalid fields")
	ErrDuplicatePhone      = errors.New("phone number already registered")
	ErrInvalidReferral     = errors.New("invalid referral")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNoRateConfig aborts the daily commission batch: with no rate table
	// there is nothing to compute against. The scheduler retries next cycle.
	ErrNoRateConfig = errors.New("no commission rate config")
)
