package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FraudAudit is the durable trace of one fraud screening. It records
// which rules fired and why, and is written before the result event is
// published. The external full-text indexer rebuilds its index from
// these rows.
type FraudAudit struct {
	ID            string
	TransactionID string
	ReferenceNo   string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	RiskScore     int
	RiskLevel     RiskLevel
	RulesFired    []string
	Details       string
	Outcome       string // VALIDATED or REJECTED
	CreatedAt     time.Time
}

// Audit outcomes.
const (
	AuditOutcomeValidated = "VALIDATED"
	AuditOutcomeRejected  = "REJECTED"
)
