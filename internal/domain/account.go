package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account represents a bank account that can send and receive transfers.
type Account struct {
	ID                 string
	AccountNumber      string
	HolderName         string
	Balance            decimal.Decimal
	DailyTransferLimit decimal.Decimal
	Status             AccountStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive reports whether the account may participate in transfers.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// ValidateDebit checks if the account has sufficient balance for amount.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

// ValidateDailyLimit checks that usedToday plus amount stays within the
// account's daily transfer limit.
func (a *Account) ValidateDailyLimit(usedToday, amount decimal.Decimal) error {
	if usedToday.Add(amount).GreaterThan(a.DailyTransferLimit) {
		return ErrDailyLimitExceeded
	}
	return nil
}
