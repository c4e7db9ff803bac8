package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/minibank/internal/domain"
)

// EventBus implements usecase.EventBus on Redis Streams with consumer
// groups. Delivery is at-least-once: entries stay pending until acked.
type EventBus struct {
	client *redis.Client
}

// NewEventBus creates a new EventBus.
func NewEventBus(client *redis.Client) *EventBus {
	return &EventBus{client: client}
}

// Publish appends an event to a stream and returns its position.
func (b *EventBus) Publish(ctx context.Context, stream string, values map[string]string) (string, error) {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: toAnyMap(values),
	}

	return b.client.XAdd(ctx, args).Result()
}

// EnsureConsumerGroup creates the consumer group if it does not exist
// yet. Safe to call on every startup.
func (b *EventBus) EnsureConsumerGroup(ctx context.Context, stream, group string) error {
	err := b.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return err
	}

	return nil
}

// Poll reads up to maxBatch undelivered events for this consumer,
// blocking up to maxWait when the stream is drained.
func (b *EventBus) Poll(ctx context.Context, stream, group, consumer string, maxBatch int64, maxWait time.Duration) ([]domain.Event, error) {
	streams, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    maxBatch,
		Block:    maxWait,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}

		return nil, err
	}

	var events []domain.Event

	for _, s := range streams {
		for _, msg := range s.Messages {
			events = append(events, domain.Event{
				ID:     msg.ID,
				Stream: s.Stream,
				Values: toStringMap(msg.Values),
			})
		}
	}

	return events, nil
}

// Ack marks an event as processed for the group.
func (b *EventBus) Ack(ctx context.Context, stream, group, eventID string) error {
	return b.client.XAck(ctx, stream, group, eventID).Err()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func toAnyMap(values map[string]string) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v
	}

	return out
}

func toStringMap(values map[string]any) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}

	return out
}
