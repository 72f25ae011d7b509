package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockHeld is returned when another request owns the lock.
var ErrLockHeld = errors.New("lock is held by another request")

// Locker hands out short-lived mutual-exclusion locks keyed by name.
type Locker interface {
	// Acquire returns a release func, or ErrLockHeld if the key is taken.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

const lockPrefix = "lock:"

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker implements Locker with SET NX PX.
type RedisLocker struct {
	Client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{Client: client}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.New().String()
	fullKey := lockPrefix + key

	ok, err := l.Client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.Client, []string{fullKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			GetLogger().Sugar().Warnf("failed to release lock %s: %v", key, err)
		}
	}
	return release, nil
}
