package eventconsumer

import (
	"context"
	"fmt"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase"
)

// FraudHandler screens transfer-requested events.
func FraudHandler(uc *usecase.FraudUseCase) Handler {
	return func(ctx context.Context, event domain.Event) error {
		requested, err := domain.ParseTransferRequested(event)
		if err != nil {
			return fmt.Errorf("parse event %s: %w", event.ID, err)
		}

		_, err = uc.Screen(ctx, requested)

		return err
	}
}

// CompletionHandler settles transfer-validated events.
func CompletionHandler(uc *usecase.SettlementUseCase) Handler {
	return func(ctx context.Context, event domain.Event) error {
		transactionID, err := domain.TransactionIDOf(event)
		if err != nil {
			return fmt.Errorf("parse event %s: %w", event.ID, err)
		}

		return uc.Complete(ctx, transactionID)
	}
}

// RejectionHandler applies transfer-rejected events.
func RejectionHandler(uc *usecase.SettlementUseCase) Handler {
	return func(ctx context.Context, event domain.Event) error {
		transactionID, err := domain.TransactionIDOf(event)
		if err != nil {
			return fmt.Errorf("parse event %s: %w", event.ID, err)
		}

		return uc.Reject(ctx, transactionID)
	}
}
