package usecase

import "time"

const (
	// DefaultLockWait bounds how long a transfer waits for an account lock.
	DefaultLockWait = 5 * time.Second

	// DefaultLockLease bounds how long a crashed holder can keep an
	// account locked before expiry.
	DefaultLockLease = 10 * time.Second

	// DailyLimitTTL is how long the per-day cumulative transfer total is
	// cached.
	DailyLimitTTL = 24 * time.Hour

	// TransferCountTTL is the rolling window for the high-frequency rule.
	TransferCountTTL = time.Hour

	// LastTargetTTL is the trailing window for the repeat-destination rule.
	LastTargetTTL = 30 * time.Minute

	// BalanceCacheTTL caps staleness of the balance read-through cache.
	BalanceCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)

// Key prefixes in the fast shared store.
const (
	lockKeyPrefix       = "lock:account:"
	dailyLimitKeyPrefix = "daily-limit:"
	transferCountPrefix = "fraud:transfer-count:"
	lastTargetPrefix    = "fraud:last-target:"
	balanceCachePrefix  = "account:balance:"
)

func lockKey(accountID string) string {
	return lockKeyPrefix + accountID
}

func dailyLimitKey(accountID string, day time.Time) string {
	return dailyLimitKeyPrefix + accountID + ":" + day.UTC().Format("2006-01-02")
}

func transferCountKey(accountID string) string {
	return transferCountPrefix + accountID
}

func lastTargetKey(accountID string) string {
	return lastTargetPrefix + accountID
}

func balanceCacheKey(accountID string) string {
	return balanceCachePrefix + accountID
}
