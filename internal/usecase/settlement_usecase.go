package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/metrics"
)

// SettlementUseCase applies the terminal outcome of a transfer: the
// atomic balance mutation on validation, or the rejection mark. Both
// operations are idempotent because result events arrive at least once.
type SettlementUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	cache       Cache
	retrier     Retrier
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// SettlementUseCaseConfig holds dependencies for SettlementUseCase.
type SettlementUseCaseConfig struct {
	TxManager   TransactionManager
	AccountRepo AccountRepository
	TxnRepo     TransactionRepository
	Cache       Cache
	Retrier     Retrier
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	Now         func() time.Time
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(cfg SettlementUseCaseConfig) *SettlementUseCase {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	return &SettlementUseCase{
		txManager:   cfg.TxManager,
		accountRepo: cfg.AccountRepo,
		txnRepo:     cfg.TxnRepo,
		cache:       cfg.Cache,
		retrier:     cfg.Retrier,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
}

// Complete settles a validated transfer: conditional debit, credit, and
// the COMPLETED/PASSED transition in one database transaction. Replayed
// deliveries no-op once the transaction is terminal.
func (uc *SettlementUseCase) Complete(ctx context.Context, transactionID string) error {
	run := func() error { return uc.complete(ctx, transactionID) }
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, run)
	}

	return run()
}

func (uc *SettlementUseCase) complete(ctx context.Context, transactionID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The row lock serializes concurrent deliveries of the same result
	// event; the status check makes the replayed ones no-ops.
	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return err
	}

	if txn.IsTerminal() {
		uc.logger.DebugContext(ctx, "settlement already applied",
			slog.String("transaction_id", transactionID),
			slog.String("status", string(txn.Status)))
		return nil
	}

	now := uc.now()

	rows, err := uc.accountRepo.DebitIfSufficient(ctx, tx, txn.FromAccountID, txn.Amount, now)
	if err != nil {
		return err
	}

	if rows == 0 {
		// Balance dropped below the amount between validation and
		// settlement. No credit is applied; the transfer fails.
		if _, err := uc.txnRepo.UpdateStatusIfPending(ctx, tx, transactionID,
			domain.TransactionStatusFailed, domain.FraudCheckPassed, now); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		if uc.metrics != nil {
			uc.metrics.TransfersFailed.Inc()
		}

		uc.logger.ErrorContext(ctx, "insufficient balance at settlement",
			slog.String("transaction_id", transactionID),
			slog.String("reference_no", txn.ReferenceNo))

		return nil
	}

	if err := uc.accountRepo.Credit(ctx, tx, txn.ToAccountID, txn.Amount, now); err != nil {
		return err
	}

	if _, err := uc.txnRepo.UpdateStatusIfPending(ctx, tx, transactionID,
		domain.TransactionStatusCompleted, domain.FraudCheckPassed, now); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	// Cache maintenance is best-effort and happens only after commit.
	uc.bumpDailyLimit(ctx, txn.FromAccountID, txn.Amount)
	uc.invalidateBalance(ctx, txn.FromAccountID)
	uc.invalidateBalance(ctx, txn.ToAccountID)

	if uc.metrics != nil {
		uc.metrics.TransfersCompleted.Inc()
	}

	uc.logger.InfoContext(ctx, "transfer completed",
		slog.String("transaction_id", transactionID),
		slog.String("reference_no", txn.ReferenceNo),
		slog.String("amount", txn.Amount.String()),
		slog.String("from", txn.FromAccountID),
		slog.String("to", txn.ToAccountID))

	return nil
}

// Reject marks a transfer REJECTED/FLAGGED. No balance mutation.
func (uc *SettlementUseCase) Reject(ctx context.Context, transactionID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, transactionID)
	if err != nil {
		return err
	}

	if txn.IsTerminal() {
		return nil
	}

	if _, err := uc.txnRepo.UpdateStatusIfPending(ctx, tx, transactionID,
		domain.TransactionStatusRejected, domain.FraudCheckFlagged, uc.now()); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersRejected.Inc()
	}

	uc.logger.WarnContext(ctx, "transfer rejected by fraud screening",
		slog.String("transaction_id", transactionID))

	return nil
}

func (uc *SettlementUseCase) bumpDailyLimit(ctx context.Context, accountID string, amount decimal.Decimal) {
	key := dailyLimitKey(accountID, uc.now())

	total := amount
	if cached, found, err := uc.cache.Get(ctx, key); err == nil && found {
		if prev, parseErr := decimal.NewFromString(cached); parseErr == nil {
			total = prev.Add(amount)
		}
	}

	if err := uc.cache.Set(ctx, key, total.String(), DailyLimitTTL); err != nil {
		uc.logger.WarnContext(ctx, "daily limit cache update failed",
			slog.String("account_id", accountID), slog.Any("error", err))
	}
}

func (uc *SettlementUseCase) invalidateBalance(ctx context.Context, accountID string) {
	if err := uc.cache.Delete(ctx, balanceCacheKey(accountID)); err != nil {
		uc.logger.WarnContext(ctx, "balance cache invalidation failed",
			slog.String("account_id", accountID), slog.Any("error", err))
	}
}
