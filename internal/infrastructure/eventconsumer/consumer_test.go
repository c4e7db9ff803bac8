package eventconsumer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/usecase/mocks"
)

func TestProcessBatchAcksHandledEvents(t *testing.T) {
	ctx := context.Background()
	bus := mocks.NewMockEventBus()

	_, err := bus.Publish(ctx, "s", map[string]string{"transactionId": "txn-1"})
	require.NoError(t, err)
	_, err = bus.Publish(ctx, "s", map[string]string{"transactionId": "txn-2"})
	require.NoError(t, err)

	var handled []string

	consumer := NewConsumer(Config{
		Bus:    bus,
		Stream: "s",
		Group:  "g",
		Name:   "worker-1",
		Handler: func(ctx context.Context, event domain.Event) error {
			handled = append(handled, event.Values["transactionId"])
			return nil
		},
	})

	consumer.processBatch(ctx)

	assert.Equal(t, []string{"txn-1", "txn-2"}, handled)
	assert.Len(t, bus.Acked["s"], 2)
}

func TestProcessBatchLeavesFailedEventsPending(t *testing.T) {
	ctx := context.Background()
	bus := mocks.NewMockEventBus()

	_, err := bus.Publish(ctx, "s", map[string]string{"transactionId": "txn-1"})
	require.NoError(t, err)

	consumer := NewConsumer(Config{
		Bus:    bus,
		Stream: "s",
		Group:  "g",
		Name:   "worker-1",
		Handler: func(ctx context.Context, event domain.Event) error {
			return errors.New("transient failure")
		},
	})

	consumer.processBatch(ctx)

	// An unacked entry is redelivered later.
	assert.Empty(t, bus.Acked["s"])
}

func TestProcessBatchRespectsBatchSize(t *testing.T) {
	ctx := context.Background()
	bus := mocks.NewMockEventBus()

	for range 5 {
		_, err := bus.Publish(ctx, "s", map[string]string{"transactionId": "txn"})
		require.NoError(t, err)
	}

	var handled int

	consumer := NewConsumer(Config{
		Bus:    bus,
		Stream: "s",
		Group:  "g",
		Name:   "worker-1",
		Batch:  3,
		Handler: func(ctx context.Context, event domain.Event) error {
			handled++
			return nil
		},
	})

	consumer.processBatch(ctx)

	assert.Equal(t, 3, handled)
}
