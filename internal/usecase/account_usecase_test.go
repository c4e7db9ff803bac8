package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
	"github.com/iho/minibank/internal/usecase/mocks"
)

func TestGetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("caches the balance on a miss", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository()
		seedAccounts(accounts)
		cache := mocks.NewMockCache()

		uc := usecase.NewAccountUseCase(accounts, cache, nil)

		balance, err := uc.GetBalance(ctx, "acct-a")
		require.NoError(t, err)
		assert.Equal(t, "1000", balance.String())

		cached, found, err := cache.Get(ctx, "account:balance:acct-a")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "1000", cached)
	})

	t.Run("serves the cached balance without hitting the repository", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository()
		accounts.GetByIDFunc = func(ctx context.Context, id string) (*domain.Account, error) {
			t.Fatalf("unexpected repository read for %s", id)
			return nil, nil
		}
		cache := mocks.NewMockCache()
		require.NoError(t, cache.Set(ctx, "account:balance:acct-a", "725.50", 0))

		uc := usecase.NewAccountUseCase(accounts, cache, nil)

		balance, err := uc.GetBalance(ctx, "acct-a")
		require.NoError(t, err)
		assert.True(t, balance.Equal(decimal.RequireFromString("725.50")))
	})

	t.Run("unknown account", func(t *testing.T) {
		uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), mocks.NewMockCache(), nil)

		_, err := uc.GetBalance(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}
