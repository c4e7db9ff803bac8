package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/minibank/internal/domain"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts a fraud audit record.
func (r *AuditRepository) Create(ctx context.Context, audit *domain.FraudAudit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fraud_audit (id, transaction_id, reference_no, from_account_id,
		     to_account_id, amount, risk_score, risk_level, rules_fired, details, outcome, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		audit.ID, audit.TransactionID, audit.ReferenceNo, audit.FromAccountID,
		audit.ToAccountID, decimalToNumeric(audit.Amount), audit.RiskScore,
		string(audit.RiskLevel), audit.RulesFired, audit.Details, audit.Outcome,
		timeToPgTimestamptz(audit.CreatedAt))

	return err
}

// ListByTransaction lists audit records for a transaction, oldest first.
func (r *AuditRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.FraudAudit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, transaction_id, reference_no, from_account_id, to_account_id,
		     amount, risk_score, risk_level, rules_fired, details, outcome, created_at
		 FROM fraud_audit
		 WHERE transaction_id = $1
		 ORDER BY created_at`,
		transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []*domain.FraudAudit

	for rows.Next() {
		var (
			audit     domain.FraudAudit
			amount    pgtype.Numeric
			riskLevel string
			createdAt pgtype.Timestamptz
		)

		err := rows.Scan(&audit.ID, &audit.TransactionID, &audit.ReferenceNo,
			&audit.FromAccountID, &audit.ToAccountID, &amount, &audit.RiskScore,
			&riskLevel, &audit.RulesFired, &audit.Details, &audit.Outcome, &createdAt)
		if err != nil {
			return nil, err
		}

		audit.Amount = numericToDecimal(amount)
		audit.RiskLevel = domain.RiskLevel(riskLevel)
		audit.CreatedAt = createdAt.Time

		audits = append(audits, &audit)
	}

	return audits, rows.Err()
}
