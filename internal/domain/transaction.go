package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus represents the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// FraudCheckStatus represents the fraud screening state of a transaction.
type FraudCheckStatus string

const (
	FraudCheckPending FraudCheckStatus = "PENDING"
	FraudCheckPassed  FraudCheckStatus = "PASSED"
	FraudCheckFlagged FraudCheckStatus = "FLAGGED"
)

// Transaction represents a fund transfer between two accounts.
// It is created PENDING by the orchestrator and reaches exactly one
// terminal status through the settlement handler.
type Transaction struct {
	ID               string
	ReferenceNo      string
	FromAccountID    string
	ToAccountID      string
	Amount           decimal.Decimal
	Status           TransactionStatus
	FraudCheckStatus FraudCheckStatus
	Description      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsTerminal reports whether the transaction has reached a final status.
// Terminal transactions are immutable.
func (t *Transaction) IsTerminal() bool {
	switch t.Status {
	case TransactionStatusCompleted, TransactionStatusRejected, TransactionStatusFailed:
		return true
	}
	return false
}

// Validate validates the transfer request fields.
func (t *Transaction) Validate() error {
	if t.FromAccountID == t.ToAccountID {
		return ErrSameAccount
	}

	return ValidateAmount(t.Amount)
}
