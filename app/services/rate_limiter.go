package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// RateLimitDecision is the outcome of a single rate limit check
type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter admits at most limit events per window for a key
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitDecision, error)
}

// MemoryRateLimiter is a fixed-window counter per key held in process memory. Windows start at the
// first request for a key. State is not shared between instances.
type MemoryRateLimiter struct {
	limit   int
	window  time.Duration
	windows *cache.Cache
	mu      sync.Mutex
	now     func() time.Time
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// NewMemoryRateLimiter creates a limiter that admits limit requests per window
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:   limit,
		window:  window,
		windows: cache.New(window, window),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(ctx context.Context, key string) (RateLimitDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w := memoryWindow{resetAt: now.Add(l.window)}
	if v, ok := l.windows.Get(key); ok {
		if current := v.(memoryWindow); now.Before(current.resetAt) {
			w = current
		}
	}

	w.count++
	l.windows.Set(key, w, w.resetAt.Sub(now))

	if w.count > l.limit {
		return RateLimitDecision{Allowed: false, RetryAfter: w.resetAt.Sub(now)}, nil
	}
	return RateLimitDecision{Allowed: true, Remaining: l.limit - w.count}, nil
}

// RedisRateLimiter is a fixed-window counter shared by every instance using the same redis
type RedisRateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisRateLimiter creates a redis-backed limiter
func NewRedisRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string) (RateLimitDecision, error) {
	redisKey := fmt.Sprintf("%sratelimit:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return RateLimitDecision{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return RateLimitDecision{}, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil {
			return RateLimitDecision{}, fmt.Errorf("failed to read rate limit window: %w", err)
		}
		if ttl < 0 {
			// counter lost its expiry; restore it so the key cannot block forever
			_ = l.client.Expire(ctx, redisKey, l.window).Err()
			ttl = l.window
		}
		return RateLimitDecision{Allowed: false, RetryAfter: ttl}, nil
	}

	return RateLimitDecision{Allowed: true, Remaining: l.limit - int(count)}, nil
}
