package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
	"github.com/iho/minibank/internal/usecase/mocks"
)

type settlementFixture struct {
	txMgr    *mocks.MockTransactionManager
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	cache    *mocks.MockCache
	uc       *usecase.SettlementUseCase
}

func newSettlementFixture() *settlementFixture {
	f := &settlementFixture{
		txMgr:    mocks.NewMockTransactionManager(),
		accounts: mocks.NewMockAccountRepository(),
		txns:     mocks.NewMockTransactionRepository(),
		cache:    mocks.NewMockCache(),
	}
	seedAccounts(f.accounts)

	f.uc = usecase.NewSettlementUseCase(usecase.SettlementUseCaseConfig{
		TxManager:   f.txMgr,
		AccountRepo: f.accounts,
		TxnRepo:     f.txns,
		Cache:       f.cache,
		Now:         func() time.Time { return testNow },
	})

	return f
}

func (f *settlementFixture) seedPending(t *testing.T, amount int64) *domain.Transaction {
	t.Helper()

	txn := &domain.Transaction{
		ID:               "txn-1",
		ReferenceNo:      "TXN17000000000001",
		FromAccountID:    "acct-a",
		ToAccountID:      "acct-b",
		Amount:           decimal.NewFromInt(amount),
		Status:           domain.TransactionStatusPending,
		FraudCheckStatus: domain.FraudCheckPending,
	}
	require.NoError(t, f.txns.Create(context.Background(), txn))

	return txn
}

func (f *settlementFixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()

	acc, err := f.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)

	return acc.Balance
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("moves funds and marks completed", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 200)

		require.NoError(t, f.uc.Complete(ctx, "txn-1"))

		assert.Equal(t, "800", f.balance(t, "acct-a").String())
		assert.Equal(t, "700", f.balance(t, "acct-b").String())

		txn, err := f.txns.GetByID(ctx, "txn-1")
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
		assert.Equal(t, domain.FraudCheckPassed, txn.FraudCheckStatus)

		require.Len(t, f.txMgr.Started, 1)
		assert.True(t, f.txMgr.Started[0].Committed)
	})

	t.Run("replayed delivery does not double-apply", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 200)

		require.NoError(t, f.uc.Complete(ctx, "txn-1"))
		require.NoError(t, f.uc.Complete(ctx, "txn-1"))
		require.NoError(t, f.uc.Complete(ctx, "txn-1"))

		assert.Equal(t, "800", f.balance(t, "acct-a").String())
		assert.Equal(t, "700", f.balance(t, "acct-b").String())
	})

	t.Run("fails without credit when balance dropped", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 1500)

		require.NoError(t, f.uc.Complete(ctx, "txn-1"))

		// Neither side moves when the conditional debit matches no row.
		assert.Equal(t, "1000", f.balance(t, "acct-a").String())
		assert.Equal(t, "500", f.balance(t, "acct-b").String())

		txn, err := f.txns.GetByID(ctx, "txn-1")
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusFailed, txn.Status)
		assert.Equal(t, domain.FraudCheckPassed, txn.FraudCheckStatus)
	})

	t.Run("unknown transaction is an error", func(t *testing.T) {
		f := newSettlementFixture()

		err := f.uc.Complete(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("bumps daily usage and invalidates balance caches", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 200)

		dailyKey := "daily-limit:acct-a:2025-03-10"
		require.NoError(t, f.cache.Set(ctx, dailyKey, "300", 0))
		require.NoError(t, f.cache.Set(ctx, "account:balance:acct-a", "1000", 0))
		require.NoError(t, f.cache.Set(ctx, "account:balance:acct-b", "500", 0))

		require.NoError(t, f.uc.Complete(ctx, "txn-1"))

		used, found, err := f.cache.Get(ctx, dailyKey)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "500", used)

		_, found, err = f.cache.Get(ctx, "account:balance:acct-a")
		require.NoError(t, err)
		assert.False(t, found)

		_, found, err = f.cache.Get(ctx, "account:balance:acct-b")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("runs through the retrier when configured", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 200)

		retrier := &countingRetrier{}
		uc := usecase.NewSettlementUseCase(usecase.SettlementUseCaseConfig{
			TxManager:   f.txMgr,
			AccountRepo: f.accounts,
			TxnRepo:     f.txns,
			Cache:       f.cache,
			Retrier:     retrier,
			Now:         func() time.Time { return testNow },
		})

		require.NoError(t, uc.Complete(ctx, "txn-1"))
		assert.Equal(t, 1, retrier.calls)
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()

	t.Run("marks rejected without touching balances", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 200)

		require.NoError(t, f.uc.Reject(ctx, "txn-1"))

		assert.Equal(t, "1000", f.balance(t, "acct-a").String())
		assert.Equal(t, "500", f.balance(t, "acct-b").String())

		txn, err := f.txns.GetByID(ctx, "txn-1")
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusRejected, txn.Status)
		assert.Equal(t, domain.FraudCheckFlagged, txn.FraudCheckStatus)
	})

	t.Run("reject after complete is a no-op", func(t *testing.T) {
		f := newSettlementFixture()
		f.seedPending(t, 200)

		require.NoError(t, f.uc.Complete(ctx, "txn-1"))
		require.NoError(t, f.uc.Reject(ctx, "txn-1"))

		txn, err := f.txns.GetByID(ctx, "txn-1")
		require.NoError(t, err)
		assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
		assert.Equal(t, "700", f.balance(t, "acct-b").String())
	})
}

type countingRetrier struct {
	calls int
}

func (r *countingRetrier) Retry(ctx context.Context, fn func() error) error {
	r.calls++
	return fn()
}
