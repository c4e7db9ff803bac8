package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
)

// AccountUseCase serves account reads. Balance lookups go through the
// fast store; settlement invalidates the cached value on every applied
// transfer, so staleness is bounded by the TTL.
type AccountUseCase struct {
	accountRepo AccountRepository
	cache       Cache
	logger      *slog.Logger
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, cache Cache, logger *slog.Logger) *AccountUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountUseCase{
		accountRepo: accountRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// GetBalance returns the account balance, preferring the cached value.
func (uc *AccountUseCase) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	key := balanceCacheKey(id)

	cached, found, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.logger.WarnContext(ctx, "balance cache read failed", slog.Any("error", err))
	}
	if found {
		if balance, parseErr := decimal.NewFromString(cached); parseErr == nil {
			return balance, nil
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	if err := uc.cache.Set(ctx, key, account.Balance.String(), BalanceCacheTTL); err != nil {
		uc.logger.WarnContext(ctx, "balance cache write failed", slog.Any("error", err))
	}

	return account.Balance, nil
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.accountRepo.List(ctx, limit, offset)
}
