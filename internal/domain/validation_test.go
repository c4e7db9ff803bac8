package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr error
	}{
		{"valid amount", "100.50", nil},
		{"minimum amount", "0.01", nil},
		{"below minimum", "0.001", ErrAmountTooSmall},
		{"zero", "0", ErrInvalidAmount},
		{"negative", "-10", ErrInvalidAmount},
		{"above maximum", "1000000000001", ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("bad test amount: %v", err)
			}

			err = ValidateAmount(amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLockOrder(t *testing.T) {
	first, second := LockOrder("acc-b", "acc-a")
	if first != "acc-a" || second != "acc-b" {
		t.Fatalf("expected acc-a,acc-b got %s,%s", first, second)
	}

	// Same order regardless of argument order.
	f2, s2 := LockOrder("acc-a", "acc-b")
	if f2 != first || s2 != second {
		t.Fatal("lock order must be independent of argument order")
	}
}

func TestAccountValidateDailyLimit(t *testing.T) {
	acc := Account{DailyTransferLimit: decimal.NewFromInt(50_000_000)}

	used := decimal.NewFromInt(49_000_000)
	if err := acc.ValidateDailyLimit(used, decimal.NewFromInt(1_000_000)); err != nil {
		t.Fatalf("transfer exactly at limit must pass: %v", err)
	}

	if err := acc.ValidateDailyLimit(used, decimal.NewFromInt(1_000_001)); err != ErrDailyLimitExceeded {
		t.Fatalf("expected ErrDailyLimitExceeded, got %v", err)
	}
}
