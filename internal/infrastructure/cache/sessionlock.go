package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

const sessionLockPrefix = "klarna:reconcile:"

// ErrLockTimeout is returned when the lock could not be taken within the wait budget.
var ErrLockTimeout = errors.New("timed out waiting for session lock")

// releaseLockScript deletes the key only if it still holds our token, so an
// expired lock taken over by another holder is never released by us.
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSessionLocker serializes reconciliation of one provider session
// across processes.
type RedisSessionLocker struct {
	client       *redis.Client
	ttl          time.Duration
	wait         time.Duration
	pollInterval time.Duration
	logger       logger.Interface
}

// NewRedisSessionLocker creates a locker.
// Parameters:
//   - ttl: lock lifetime, bounds the damage of a crashed holder
//   - wait: how long Acquire blocks before giving up
func NewRedisSessionLocker(client *redis.Client, ttl, wait time.Duration, log logger.Interface) *RedisSessionLocker {
	return &RedisSessionLocker{
		client:       client,
		ttl:          ttl,
		wait:         wait,
		pollInterval: 50 * time.Millisecond,
		logger:       log,
	}
}

// Acquire takes the lock for sessionID. The returned release function
// removes it.
func (l *RedisSessionLocker) Acquire(ctx context.Context, sessionID string) (func(), error) {
	if sessionID == "" {
		return nil, errors.New("session id cannot be empty")
	}

	key := sessionLockPrefix + sessionID
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire session lock: %w", err)
		}
		if ok {
			return l.releaseFunc(key, token), nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

func (l *RedisSessionLocker) releaseFunc(key, token string) func() {
	return func() {
		// The caller's context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := releaseLockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warnw("failed to release session lock", "key", key, "error", err)
		}
	}
}
