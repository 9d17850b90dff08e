package click

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter bounds valid clicks per fingerprint per short code inside a
// cooldown window. Allow consumes one slot and reports whether the
// click is still within policy. Counter updates are atomic per
// fingerprint-per-window.
type Limiter interface {
	Allow(ctx context.Context, fingerprint, shortCode string) (bool, error)
}

// RedisLimiter is a fixed-window counter on Redis INCR/EXPIRE; the
// increment is atomic across instances.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a Redis-backed click limiter
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow increments the window counter and checks it against the limit
func (l *RedisLimiter) Allow(ctx context.Context, fingerprint, shortCode string) (bool, error) {
	key := fmt.Sprintf("clicks:%s:%s", shortCode, fingerprint)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		// First hit opens the window
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.limit), nil
}

// MemoryLimiter is the in-process fallback used when Redis is not
// configured (development). Same fixed-window semantics, one instance.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[string]*windowCounter
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter creates an in-process click limiter
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*windowCounter),
	}
}

// Allow increments the window counter and checks it against the limit
func (l *MemoryLimiter) Allow(_ context.Context, fingerprint, shortCode string) (bool, error) {
	key := shortCode + ":" + fingerprint
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.counts[key]
	if !ok || now.After(c.resetAt) {
		l.counts[key] = &windowCounter{count: 1, resetAt: now.Add(l.window)}
		l.sweepLocked(now)
		return l.limit >= 1, nil
	}

	c.count++
	return c.count <= l.limit, nil
}

// sweepLocked drops expired windows so the map does not grow unbounded
func (l *MemoryLimiter) sweepLocked(now time.Time) {
	if len(l.counts) < 4096 {
		return
	}
	for key, c := range l.counts {
		if now.After(c.resetAt) {
			delete(l.counts, key)
		}
	}
}
