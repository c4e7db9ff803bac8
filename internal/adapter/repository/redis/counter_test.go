package redis

import (
	"context"
	"testing"
	"time"
)

func TestCounterIncrementAndCount(t *testing.T) {
	client, _ := newTestRedisClient(t)
	counters := NewCounterStore(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := counters.Increment(ctx, "fraud:transfer-count:acct-1", time.Hour)
		if err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}

	count, err := counters.Count(ctx, "fraud:transfer-count:acct-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestCounterCountMissingIsZero(t *testing.T) {
	client, _ := newTestRedisClient(t)
	counters := NewCounterStore(client)

	count, err := counters.Count(context.Background(), "absent")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestCounterWindowAnchoredAtFirstIncrement(t *testing.T) {
	client, mr := newTestRedisClient(t)
	counters := NewCounterStore(client)
	ctx := context.Background()

	if _, err := counters.Increment(ctx, "k", 10*time.Second); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	mr.FastForward(6 * time.Second)

	// A later increment must not extend the window.
	if _, err := counters.Increment(ctx, "k", 10*time.Second); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	mr.FastForward(5 * time.Second)

	count, err := counters.Count(ctx, "k")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter to expire with the original window, got %d", count)
	}
}

func TestCounterGetSetDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)
	counters := NewCounterStore(client)
	ctx := context.Background()

	if err := counters.Set(ctx, "fraud:last-target:acct-1", "acct-2", 30*time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, found, err := counters.Get(ctx, "fraud:last-target:acct-1")
	if err != nil || !found {
		t.Fatalf("get failed: value=%q found=%v err=%v", value, found, err)
	}
	if value != "acct-2" {
		t.Fatalf("expected acct-2, got %s", value)
	}

	if err := counters.Delete(ctx, "fraud:last-target:acct-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, found, err = counters.Get(ctx, "fraud:last-target:acct-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found {
		t.Fatalf("expected key to be gone")
	}
}
