package redis

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// retryInterval is how often a blocked TryLock re-attempts acquisition.
const retryInterval = 50 * time.Millisecond

// unlockScript deletes the lock only when the caller still owns it, so
// a lock that expired and was re-acquired elsewhere is never released
// by the old holder.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockManager implements usecase.LockManager with plain SET NX locks.
// The lease TTL bounds how long a crashed holder keeps a lock.
type LockManager struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewLockManager creates a new LockManager.
func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{
		client: client,
		tokens: make(map[string]string),
	}
}

// TryLock attempts to acquire the lock, retrying until wait elapses.
// Returns false when the lock stayed held for the whole window.
func (m *LockManager) TryLock(ctx context.Context, key string, wait, lease time.Duration) (bool, error) {
	token := ulid.Make().String()
	deadline := time.Now().Add(wait)

	for {
		ok, err := m.client.SetNX(ctx, key, token, lease).Result()
		if err != nil {
			return false, err
		}

		if ok {
			m.mu.Lock()
			m.tokens[key] = token
			m.mu.Unlock()

			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// Unlock releases the lock if this manager still owns it.
func (m *LockManager) Unlock(ctx context.Context, key string) error {
	m.mu.Lock()
	token, ok := m.tokens[key]
	delete(m.tokens, key)
	m.mu.Unlock()

	if !ok {
		return nil
	}

	return unlockScript.Run(ctx, m.client, []string{key}, token).Err()
}
