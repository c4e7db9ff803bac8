package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, reference_no, from_account_id, to_account_id, amount,
	status, fraud_check_status, description, created_at, updated_at`

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		txn.ID, txn.ReferenceNo, txn.FromAccountID, txn.ToAccountID,
		decimalToNumeric(txn.Amount), string(txn.Status), string(txn.FraudCheckStatus),
		txn.Description, timeToPgTimestamptz(txn.CreatedAt), timeToPgTimestamptz(txn.UpdatedAt))

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	return scanTransactionRow(row)
}

// GetByIDForUpdate retrieves a transaction by ID holding a FOR UPDATE
// row lock for the rest of the database transaction.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	pgxTx := tx.(*Tx).PgxTx()

	row := pgxTx.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, id)

	return scanTransactionRow(row)
}

// UpdateStatusIfPending moves a transaction to the given status only if
// it is still PENDING. Returns the number of rows changed.
func (r *TransactionRepository) UpdateStatusIfPending(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, fraudStatus domain.FraudCheckStatus, updatedAt time.Time) (int64, error) {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx,
		`UPDATE transactions
		 SET status = $2, fraud_check_status = $3, updated_at = $4
		 WHERE id = $1 AND status = $5`,
		id, string(status), string(fraudStatus), timeToPgTimestamptz(updatedAt),
		string(domain.TransactionStatusPending))
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// ListByAccount lists transactions touching an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE from_account_id = $1 OR to_account_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		accountID, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByDateRange lists transactions created in [start, end).
func (r *TransactionRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at`,
		timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SumCompletedTransfers sums the completed outgoing amounts since the
// given instant. Backs the daily limit check when the cache is cold.
func (r *TransactionRepository) SumCompletedTransfers(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
	var sum pgtype.Numeric

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions
		 WHERE from_account_id = $1 AND status = $2 AND created_at >= $3`,
		accountID, string(domain.TransactionStatusCompleted), timeToPgTimestamptz(since)).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(sum), nil
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	txn, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return txn, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn         domain.Transaction
		amount      pgtype.Numeric
		status      string
		fraudStatus string
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)

	err := row.Scan(&txn.ID, &txn.ReferenceNo, &txn.FromAccountID, &txn.ToAccountID,
		&amount, &status, &fraudStatus, &txn.Description, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.Status = domain.TransactionStatus(status)
	txn.FraudCheckStatus = domain.FraudCheckStatus(fraudStatus)
	txn.CreatedAt = createdAt.Time
	txn.UpdatedAt = updatedAt.Time

	return &txn, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction

	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}
