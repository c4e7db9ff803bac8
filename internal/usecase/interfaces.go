package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// DebitIfSufficient atomically decrements the balance only if it stays
	// non-negative. Returns the number of rows affected: zero means the
	// balance dropped below amount and no debit was applied.
	DebitIfSufficient(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (int64, error)
	Credit(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Transaction, error)
	// UpdateStatusIfPending transitions status and fraud status only while
	// the transaction is still PENDING. Returns rows affected: zero means
	// the transaction already reached a terminal status.
	UpdateStatusIfPending(ctx context.Context, tx Transaction, id string, status domain.TransactionStatus, fraudStatus domain.FraudCheckStatus, updatedAt time.Time) (int64, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error)
	SumCompletedTransfers(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error)
}

// AuditRepository defines data access for fraud audit records.
type AuditRepository interface {
	Create(ctx context.Context, audit *domain.FraudAudit) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*domain.FraudAudit, error)
}

// LockManager grants mutually-exclusive, lease-bounded locks keyed by
// account identifier. A crashed holder is bounded by lease expiry.
type LockManager interface {
	// TryLock blocks up to wait for the lock and holds it for at most
	// lease. Returns false when the lock could not be acquired in time.
	TryLock(ctx context.Context, key string, wait, lease time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// EventBus is an ordered, durable, multi-consumer-group append log with
// at-least-once delivery per group.
type EventBus interface {
	// Publish appends the event durably and returns its ordering position.
	Publish(ctx context.Context, stream string, values map[string]string) (string, error)
	// Poll retrieves up to maxBatch new events for the group, blocking at
	// most maxWait. Unacknowledged events are redelivered.
	Poll(ctx context.Context, stream, group, consumer string, maxBatch int64, maxWait time.Duration) ([]domain.Event, error)
	Ack(ctx context.Context, stream, group, eventID string) error
	// EnsureConsumerGroup creates the group if missing; creating an
	// existing group is a no-op.
	EnsureConsumerGroup(ctx context.Context, stream, group string) error
}

// CounterStore holds the fraud rate/velocity state: small per-account
// counters with per-key expiry. Not authoritative: rebuildable from the
// transaction log.
type CounterStore interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache defines the best-effort read-through cache for balances and
// daily-limit totals.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage for the HTTP surface.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
