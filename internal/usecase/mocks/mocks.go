package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	DebitIfSufficientFunc func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (int64, error)
	CreditFunc            func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Put seeds an account into the in-memory store.
func (m *MockAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) DebitIfSufficient(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (int64, error) {
	if m.DebitIfSufficientFunc != nil {
		return m.DebitIfSufficientFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if acc.Balance.LessThan(amount) {
		return 0, nil
	}
	acc.Balance = acc.Balance.Sub(amount)
	acc.UpdatedAt = updatedAt
	return 1, nil
}

func (m *MockAccountRepository) Credit(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) error {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = acc.Balance.Add(amount)
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc                func(ctx context.Context, txn *domain.Transaction) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	UpdateStatusIfPendingFunc func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, fraudStatus domain.FraudCheckStatus, updatedAt time.Time) (int64, error)
	ListByAccountFunc         func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	ListByDateRangeFunc       func(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error)
	SumCompletedFunc          func(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) UpdateStatusIfPending(ctx context.Context, tx usecase.Transaction, id string, status domain.TransactionStatus, fraudStatus domain.FraudCheckStatus, updatedAt time.Time) (int64, error) {
	if m.UpdateStatusIfPendingFunc != nil {
		return m.UpdateStatusIfPendingFunc(ctx, tx, id, status, fraudStatus, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return 0, domain.ErrTransactionNotFound
	}
	if txn.Status != domain.TransactionStatusPending {
		return 0, nil
	}
	txn.Status = status
	txn.FraudCheckStatus = fraudStatus
	txn.UpdatedAt = updatedAt
	return 1, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.FromAccountID == accountID || txn.ToAccountID == accountID {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

func (m *MockTransactionRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Transaction, error) {
	if m.ListByDateRangeFunc != nil {
		return m.ListByDateRangeFunc(ctx, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var txns []*domain.Transaction
	for _, txn := range m.transactions {
		if !txn.CreatedAt.Before(start) && txn.CreatedAt.Before(end) {
			txns = append(txns, txn)
		}
	}
	return txns, nil
}

func (m *MockTransactionRepository) SumCompletedTransfers(ctx context.Context, accountID string, since time.Time) (decimal.Decimal, error) {
	if m.SumCompletedFunc != nil {
		return m.SumCompletedFunc(ctx, accountID, since)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, txn := range m.transactions {
		if txn.FromAccountID == accountID &&
			txn.Status == domain.TransactionStatusCompleted &&
			!txn.CreatedAt.Before(since) {
			sum = sum.Add(txn.Amount)
		}
	}
	return sum, nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu     sync.RWMutex
	Audits []*domain.FraudAudit

	CreateFunc func(ctx context.Context, audit *domain.FraudAudit) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, audit *domain.FraudAudit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, audit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Audits = append(m.Audits, audit)
	return nil
}

func (m *MockAuditRepository) ListByTransaction(ctx context.Context, transactionID string) ([]*domain.FraudAudit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var audits []*domain.FraudAudit
	for _, audit := range m.Audits {
		if audit.TransactionID == transactionID {
			audits = append(audits, audit)
		}
	}
	return audits, nil
}

// MockLockManager is a mock implementation of LockManager backed by an
// in-memory set of held keys.
type MockLockManager struct {
	mu   sync.Mutex
	held map[string]bool

	TryLockFunc func(ctx context.Context, key string, wait, lease time.Duration) (bool, error)
	UnlockFunc  func(ctx context.Context, key string) error
}

func NewMockLockManager() *MockLockManager {
	return &MockLockManager{held: make(map[string]bool)}
}

func (m *MockLockManager) TryLock(ctx context.Context, key string, wait, lease time.Duration) (bool, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, wait, lease)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *MockLockManager) Unlock(ctx context.Context, key string) error {
	if m.UnlockFunc != nil {
		return m.UnlockFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	return nil
}

// Held reports whether a key is currently locked.
func (m *MockLockManager) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[key]
}

// MockEventBus is an in-memory EventBus recording published events.
type MockEventBus struct {
	mu        sync.Mutex
	seq       int
	Published map[string][]domain.Event
	Acked     map[string][]string

	PublishFunc func(ctx context.Context, stream string, values map[string]string) (string, error)
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		Published: make(map[string][]domain.Event),
		Acked:     make(map[string][]string),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, stream string, values map[string]string) (string, error) {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, stream, values)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := strconv.Itoa(m.seq) + "-0"
	m.Published[stream] = append(m.Published[stream], domain.Event{ID: id, Stream: stream, Values: values})
	return id, nil
}

func (m *MockEventBus) Poll(ctx context.Context, stream, group, consumer string, maxBatch int64, maxWait time.Duration) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.Published[stream]
	if int64(len(events)) > maxBatch {
		events = events[:maxBatch]
	}
	return events, nil
}

func (m *MockEventBus) Ack(ctx context.Context, stream, group, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Acked[stream] = append(m.Acked[stream], eventID)
	return nil
}

func (m *MockEventBus) EnsureConsumerGroup(ctx context.Context, stream, group string) error {
	return nil
}

// Events returns events published to a stream.
func (m *MockEventBus) Events(stream string) []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Published[stream]
}

// MockCounterStore is an in-memory CounterStore without expiry.
type MockCounterStore struct {
	mu       sync.Mutex
	Counters map[string]int64
	Strings  map[string]string
}

func NewMockCounterStore() *MockCounterStore {
	return &MockCounterStore{
		Counters: make(map[string]int64),
		Strings:  make(map[string]string),
	}
}

func (m *MockCounterStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[key]++
	return m.Counters[key], nil
}

func (m *MockCounterStore) Count(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counters[key], nil
}

func (m *MockCounterStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Strings[key]
	return val, ok, nil
}

func (m *MockCounterStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Strings[key] = value
	return nil
}

func (m *MockCounterStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Counters, key)
	delete(m.Strings, key)
	return nil
}

// MockCache is an in-memory Cache without expiry.
type MockCache struct {
	mu      sync.Mutex
	Entries map[string]string

	GetFunc func(ctx context.Context, key string) (string, bool, error)
	SetFunc func(ctx context.Context, key, value string, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{Entries: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Entries[key]
	return val, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Entries, key)
	return nil
}

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	mu      sync.Mutex
	Started []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Started = append(m.Started, tx)
	return tx, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu  sync.Mutex
	seq int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return "id-" + strconv.Itoa(m.seq)
}
