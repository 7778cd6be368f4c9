package rate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is the shared-store strategy: a fixed window kept in redis
// counters so every process instance sees the same budget.
type RedisLimiter struct {
	redis  redis.UniversalClient
	config Config
}

// NewRedisLimiter returns a [RedisLimiter] backed by the given client.
// Zero config fields fall back to [DefaultConfig].
func NewRedisLimiter(client redis.UniversalClient, cfg Config) *RedisLimiter {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	return &RedisLimiter{redis: client, config: cfg}
}

func loginKey(key string) string {
	return "login:rl:" + key
}

// Allow increments the window counter for key and reports whether the
// attempt fits the budget.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := loginKey(key)

	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	// Fixed-window semantics: the TTL is set once, by the first hit.
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.config.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	if count > int64(l.config.MaxAttempts) {
		ttl, err := l.redis.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = l.config.Window
		}
		return Decision{RetryAfter: ttl}, nil
	}

	return Decision{Allowed: true}, nil
}

var (
	_ Limiter = (*RedisLimiter)(nil)
	_ Limiter = (*MemoryLimiter)(nil)
)
