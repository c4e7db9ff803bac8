package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/metrics"
)

// TransferUseCase orchestrates transfer initiation: it serializes access
// to both accounts, validates funds and limits, persists the PENDING
// transaction, and publishes the request event for fraud screening.
type TransferUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	locks       LockManager
	bus         EventBus
	cache       Cache
	idGen       IDGenerator
	metrics     *metrics.Metrics
	logger      *slog.Logger

	lockWait  time.Duration
	lockLease time.Duration
	now       func() time.Time
}

// TransferUseCaseConfig holds dependencies for TransferUseCase.
type TransferUseCaseConfig struct {
	AccountRepo AccountRepository
	TxnRepo     TransactionRepository
	Locks       LockManager
	Bus         EventBus
	Cache       Cache
	IDGen       IDGenerator
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	LockWait    time.Duration
	LockLease   time.Duration
	Now         func() time.Time
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(cfg TransferUseCaseConfig) *TransferUseCase {
	if cfg.LockWait == 0 {
		cfg.LockWait = DefaultLockWait
	}
	if cfg.LockLease == 0 {
		cfg.LockLease = DefaultLockLease
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	return &TransferUseCase{
		accountRepo: cfg.AccountRepo,
		txnRepo:     cfg.TxnRepo,
		locks:       cfg.Locks,
		bus:         cfg.Bus,
		cache:       cfg.Cache,
		idGen:       cfg.IDGen,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		lockWait:    cfg.LockWait,
		lockLease:   cfg.LockLease,
		now:         cfg.Now,
	}
}

// InitiateTransferInput represents a transfer request.
type InitiateTransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
}

// InitiateTransfer validates and records a transfer, then hands it to the
// fraud pipeline. The returned transaction is always PENDING; the terminal
// outcome is observed via GetTransaction.
func (uc *TransferUseCase) InitiateTransfer(ctx context.Context, input InitiateTransferInput) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		ID:               uc.idGen.Generate(),
		ReferenceNo:      newReferenceNo(),
		FromAccountID:    input.FromAccountID,
		ToAccountID:      input.ToAccountID,
		Amount:           input.Amount,
		Status:           domain.TransactionStatusPending,
		FraudCheckStatus: domain.FraudCheckPending,
		Description:      input.Description,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	// Acquire both locks in total order so opposing transfers on the same
	// account pair cannot circular-wait.
	first, second := domain.LockOrder(input.FromAccountID, input.ToAccountID)

	release, err := uc.acquireLocks(ctx, first, second)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := uc.validateUnderLocks(ctx, input); err != nil {
		return nil, err
	}

	now := uc.now()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	// The PENDING row must be durable before the request event exists:
	// a crash here leaves a recoverable PENDING transaction, never an
	// event without a row.
	if err := uc.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("persist pending transaction: %w", err)
	}

	event := domain.TransferRequestedEvent{
		TransactionID: txn.ID,
		ReferenceNo:   txn.ReferenceNo,
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		Amount:        txn.Amount,
		Description:   txn.Description,
		Timestamp:     now,
	}

	pos, err := uc.bus.Publish(ctx, domain.StreamTransferRequested, event.Values())
	if err != nil {
		// The PENDING row stays behind for the recovery sweep.
		return nil, fmt.Errorf("publish transfer request for %s: %w", txn.ReferenceNo, err)
	}

	if uc.metrics != nil {
		uc.metrics.TransfersInitiated.Inc()
		uc.metrics.EventsPublished.WithLabelValues(domain.StreamTransferRequested).Inc()
	}

	uc.logger.InfoContext(ctx, "transfer initiated",
		slog.String("transaction_id", txn.ID),
		slog.String("reference_no", txn.ReferenceNo),
		slog.String("position", pos))

	return txn, nil
}

func (uc *TransferUseCase) acquireLocks(ctx context.Context, first, second string) (func(), error) {
	ok, err := uc.locks.TryLock(ctx, lockKey(first), uc.lockWait, uc.lockLease)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", first, err)
	}
	if !ok {
		if uc.metrics != nil {
			uc.metrics.LockTimeouts.Inc()
		}
		return nil, domain.ErrLockUnavailable
	}

	ok, err = uc.locks.TryLock(ctx, lockKey(second), uc.lockWait, uc.lockLease)
	if err != nil || !ok {
		if unlockErr := uc.locks.Unlock(ctx, lockKey(first)); unlockErr != nil {
			uc.logger.WarnContext(ctx, "failed to release lock", slog.String("key", first), slog.Any("error", unlockErr))
		}
		if err != nil {
			return nil, fmt.Errorf("lock %s: %w", second, err)
		}
		if uc.metrics != nil {
			uc.metrics.LockTimeouts.Inc()
		}
		return nil, domain.ErrLockUnavailable
	}

	if uc.metrics != nil {
		uc.metrics.LockAcquisitions.Add(2)
	}

	release := func() {
		// Lease expiry is the backstop; unlock failures only cost latency.
		for _, key := range []string{second, first} {
			if err := uc.locks.Unlock(ctx, lockKey(key)); err != nil {
				uc.logger.WarnContext(ctx, "failed to release lock", slog.String("key", key), slog.Any("error", err))
			}
		}
	}

	return release, nil
}

func (uc *TransferUseCase) validateUnderLocks(ctx context.Context, input InitiateTransferInput) error {
	fromAccount, err := uc.accountRepo.GetByID(ctx, input.FromAccountID)
	if err != nil {
		return err
	}

	toAccount, err := uc.accountRepo.GetByID(ctx, input.ToAccountID)
	if err != nil {
		return err
	}

	if !fromAccount.IsActive() || !toAccount.IsActive() {
		return domain.ErrAccountInactive
	}

	if err := fromAccount.ValidateDebit(input.Amount); err != nil {
		return err
	}

	usedToday, err := uc.dailyUsed(ctx, input.FromAccountID)
	if err != nil {
		return err
	}

	return fromAccount.ValidateDailyLimit(usedToday, input.Amount)
}

// dailyUsed returns the cumulative amount transferred today, preferring
// the fast store and falling back to a transaction-log aggregation.
func (uc *TransferUseCase) dailyUsed(ctx context.Context, accountID string) (decimal.Decimal, error) {
	now := uc.now()

	cached, found, err := uc.cache.Get(ctx, dailyLimitKey(accountID, now))
	if err == nil && found {
		used, parseErr := decimal.NewFromString(cached)
		if parseErr == nil {
			return used, nil
		}
	}
	if err != nil {
		uc.logger.WarnContext(ctx, "daily limit cache read failed", slog.Any("error", err))
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return uc.txnRepo.SumCompletedTransfers(ctx, accountID, startOfDay)
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransferUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// GetHistory lists transactions touching an account, newest first,
// excluding cancelled ones.
func (uc *TransferUseCase) GetHistory(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	txns, err := uc.txnRepo.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, err
	}

	history := make([]*domain.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.Status == domain.TransactionStatusCancelled {
			continue
		}
		history = append(history, txn)
	}

	return history, nil
}

// newReferenceNo generates a human-facing reference number.
func newReferenceNo() string {
	return fmt.Sprintf("TXN%d%04d", time.Now().UnixMilli(), rand.IntN(10000))
}
