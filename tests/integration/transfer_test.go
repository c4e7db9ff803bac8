package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/minibank/internal/adapter/http"
	"github.com/iho/minibank/internal/adapter/http/dto"
	"github.com/iho/minibank/internal/adapter/http/handler"
	postgresrepo "github.com/iho/minibank/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/minibank/internal/adapter/repository/redis"
	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/eventconsumer"
	infraredis "github.com/iho/minibank/internal/infrastructure/redis"
	"github.com/iho/minibank/internal/usecase"
	"github.com/iho/minibank/tests/testutil"
)

type sagaEnv struct {
	router  http.Handler
	txnRepo *postgresrepo.TransactionRepository
	db      *testutil.TestDB
}

// newSagaEnv wires the full pipeline: HTTP API, fraud screening consumer,
// and both settlement consumers, against real Postgres and Redis.
func newSagaEnv(t *testing.T, ctx context.Context) *sagaEnv {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)
	testDB.TruncateAll(ctx)

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	if err := redisClient.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}

	pool := testDB.Pool
	accountRepo := postgresrepo.NewAccountRepository(pool)
	txnRepo := postgresrepo.NewTransactionRepository(pool)
	auditRepo := postgresrepo.NewAuditRepository(pool)
	txManager := postgresrepo.NewTxManager(pool)
	idGen := postgresrepo.NewULIDGenerator()

	cache := redisrepo.NewCache(redisClient)
	counters := redisrepo.NewCounterStore(redisClient)
	locks := redisrepo.NewLockManager(redisClient)
	bus := redisrepo.NewEventBus(redisClient)

	transferUC := usecase.NewTransferUseCase(usecase.TransferUseCaseConfig{
		AccountRepo: accountRepo,
		TxnRepo:     txnRepo,
		Locks:       locks,
		Bus:         bus,
		Cache:       cache,
		IDGen:       idGen,
	})
	fraudUC := usecase.NewFraudUseCase(usecase.FraudUseCaseConfig{
		Counters:  counters,
		AuditRepo: auditRepo,
		Bus:       bus,
		IDGen:     idGen,
		Rules: usecase.FraudRules{
			LargeAmountThreshold: decimal.NewFromInt(10000),
			MaxTransfersPerHour:  10,
			SuspiciousHourStart:  0,
			SuspiciousHourEnd:    0, // disabled so the test passes at any wall-clock hour
		},
	})
	settlementUC := usecase.NewSettlementUseCase(usecase.SettlementUseCaseConfig{
		TxManager:   txManager,
		AccountRepo: accountRepo,
		TxnRepo:     txnRepo,
		Cache:       cache,
		Retrier:     postgresrepo.NewRetrier(),
	})
	accountUC := usecase.NewAccountUseCase(accountRepo, cache, nil)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, txnRepo)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		Logger:                zerolog.Nop(),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		TransferHandler:       handler.NewTransferHandler(transferUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
	})

	consumerCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)

	consumerConfigs := []eventconsumer.Config{
		{Stream: domain.StreamTransferRequested, Group: "fraud-workers", Handler: eventconsumer.FraudHandler(fraudUC)},
		{Stream: domain.StreamTransferValidated, Group: "settlement-workers", Handler: eventconsumer.CompletionHandler(settlementUC)},
		{Stream: domain.StreamTransferRejected, Group: "settlement-workers", Handler: eventconsumer.RejectionHandler(settlementUC)},
	}
	for _, cc := range consumerConfigs {
		cc.Bus = bus
		cc.Name = "worker-1"
		cc.Interval = 50 * time.Millisecond
		cc.Block = 10 * time.Millisecond
		go func(c *eventconsumer.Consumer) { _ = c.Start(consumerCtx) }(eventconsumer.NewConsumer(cc))
	}

	return &sagaEnv{
		router:  router,
		txnRepo: txnRepo,
		db:      testDB,
	}
}

func (e *sagaEnv) createTransfer(t *testing.T, from, to string, amount decimal.Decimal) dto.TransactionResponse {
	t.Helper()

	body, _ := json.Marshal(dto.CreateTransferRequest{
		FromAccountID: from,
		ToAccountID:   to,
		Amount:        amount,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TransactionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return resp
}

func (e *sagaEnv) waitForStatus(t *testing.T, ctx context.Context, txnID string, want domain.TransactionStatus) *domain.Transaction {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		txn, err := e.txnRepo.GetByID(ctx, txnID)
		if err != nil {
			t.Fatalf("failed to load transaction: %v", err)
		}
		if txn.Status == want {
			return txn
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("transaction %s did not reach %s in time", txnID, want)
	return nil
}

func TestTransferSaga(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	env := newSagaEnv(t, ctx)

	source := env.db.CreateTestAccount(ctx, "1001", "Alice", decimal.NewFromInt(1000), decimal.NewFromInt(50000))
	dest := env.db.CreateTestAccount(ctx, "1002", "Bob", decimal.NewFromInt(500), decimal.NewFromInt(50000))

	t.Run("clean transfer settles", func(t *testing.T) {
		resp := env.createTransfer(t, source.ID, dest.ID, decimal.RequireFromString("100.50"))
		if resp.Status != "PENDING" {
			t.Fatalf("expected PENDING on accept, got %s", resp.Status)
		}

		txn := env.waitForStatus(t, ctx, resp.ID, domain.TransactionStatusCompleted)
		if txn.FraudCheckStatus != domain.FraudCheckPassed {
			t.Fatalf("expected fraud check PASSED, got %s", txn.FraudCheckStatus)
		}

		accountRepo := postgresrepo.NewAccountRepository(env.db.Pool)
		got, err := accountRepo.GetByID(ctx, source.ID)
		if err != nil {
			t.Fatalf("failed to load source account: %v", err)
		}
		if !got.Balance.Equal(decimal.RequireFromString("899.50")) {
			t.Fatalf("expected source balance 899.50, got %s", got.Balance)
		}
	})

	t.Run("repeated large transfers are rejected", func(t *testing.T) {
		rich := env.db.CreateTestAccount(ctx, "1003", "Carol", decimal.NewFromInt(100000), decimal.NewFromInt(500000))

		// A single large transfer scores below the block threshold.
		first := env.createTransfer(t, rich.ID, dest.ID, decimal.NewFromInt(15000))
		env.waitForStatus(t, ctx, first.ID, domain.TransactionStatusCompleted)

		// The repeat to the same destination pushes the score to MEDIUM.
		resp := env.createTransfer(t, rich.ID, dest.ID, decimal.NewFromInt(15000))

		txn := env.waitForStatus(t, ctx, resp.ID, domain.TransactionStatusRejected)
		if txn.FraudCheckStatus != domain.FraudCheckFlagged {
			t.Fatalf("expected fraud check FLAGGED, got %s", txn.FraudCheckStatus)
		}

		got, err := postgresrepo.NewAccountRepository(env.db.Pool).GetByID(ctx, rich.ID)
		if err != nil {
			t.Fatalf("failed to load account: %v", err)
		}
		if !got.Balance.Equal(decimal.NewFromInt(85000)) {
			t.Fatalf("rejected transfer must not move money, balance %s", got.Balance)
		}
	})
}
