package redis

import (
	"context"
	"testing"
	"time"

	"github.com/iho/minibank/internal/domain"
)

func TestEventBusPublishAndPoll(t *testing.T) {
	client, _ := newTestRedisClient(t)
	bus := NewEventBus(client)
	ctx := context.Background()

	if err := bus.EnsureConsumerGroup(ctx, domain.StreamTransferRequested, "fraud-workers"); err != nil {
		t.Fatalf("ensure group failed: %v", err)
	}

	values := map[string]string{
		"transactionId": "txn-1",
		"amount":        "250",
	}

	id, err := bus.Publish(ctx, domain.StreamTransferRequested, values)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected a stream position")
	}

	events, err := bus.Poll(ctx, domain.StreamTransferRequested, "fraud-workers", "worker-1", 10, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID != id {
		t.Fatalf("expected id %s, got %s", id, events[0].ID)
	}
	if events[0].Values["transactionId"] != "txn-1" {
		t.Fatalf("unexpected values: %v", events[0].Values)
	}
}

func TestEventBusEnsureConsumerGroupIdempotent(t *testing.T) {
	client, _ := newTestRedisClient(t)
	bus := NewEventBus(client)
	ctx := context.Background()

	for range 3 {
		if err := bus.EnsureConsumerGroup(ctx, "some-stream", "some-group"); err != nil {
			t.Fatalf("ensure group failed: %v", err)
		}
	}
}

func TestEventBusGroupMembersSplitWork(t *testing.T) {
	client, _ := newTestRedisClient(t)
	bus := NewEventBus(client)
	ctx := context.Background()

	if err := bus.EnsureConsumerGroup(ctx, "s", "g"); err != nil {
		t.Fatalf("ensure group failed: %v", err)
	}

	for i := range 4 {
		if _, err := bus.Publish(ctx, "s", map[string]string{"n": string(rune('a' + i))}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	first, err := bus.Poll(ctx, "s", "g", "worker-1", 2, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	second, err := bus.Poll(ctx, "s", "g", "worker-2", 2, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}

	// Each undelivered entry goes to exactly one group member.
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2+2 events, got %d+%d", len(first), len(second))
	}

	seen := make(map[string]bool)
	for _, ev := range append(first, second...) {
		if seen[ev.ID] {
			t.Fatalf("event %s delivered to both consumers", ev.ID)
		}
		seen[ev.ID] = true
	}
}

func TestEventBusAck(t *testing.T) {
	client, _ := newTestRedisClient(t)
	bus := NewEventBus(client)
	ctx := context.Background()

	if err := bus.EnsureConsumerGroup(ctx, "s", "g"); err != nil {
		t.Fatalf("ensure group failed: %v", err)
	}

	id, err := bus.Publish(ctx, "s", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	events, err := bus.Poll(ctx, "s", "g", "worker-1", 10, 10*time.Millisecond)
	if err != nil || len(events) != 1 {
		t.Fatalf("poll failed: events=%d err=%v", len(events), err)
	}

	if err := bus.Ack(ctx, "s", "g", id); err != nil {
		t.Fatalf("ack failed: %v", err)
	}

	// Nothing new to deliver once acked.
	events, err = bus.Poll(ctx, "s", "g", "worker-1", 10, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestEventBusPollEmptyStream(t *testing.T) {
	client, _ := newTestRedisClient(t)
	bus := NewEventBus(client)
	ctx := context.Background()

	if err := bus.EnsureConsumerGroup(ctx, "empty", "g"); err != nil {
		t.Fatalf("ensure group failed: %v", err)
	}

	events, err := bus.Poll(ctx, "empty", "g", "worker-1", 10, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
