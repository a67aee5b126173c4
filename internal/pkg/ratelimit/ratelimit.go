package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// windowStore is the slice of the Redis API the limiter uses.
type windowStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter enforces a fixed-window request ceiling per key. With a Redis
// client configured the window counter is shared across instances via
// INCR + EXPIRE; without one (or when Redis is unreachable) it falls
// back to a process-local map, which is best-effort only.
type Limiter struct {
	limit  int
	window time.Duration
	rdb    windowStore

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	count   int
	resetAt time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithRedis makes the limiter share its counters through Redis.
func WithRedis(client *redis.Client) Option {
	return func(l *Limiter) {
		if client != nil {
			l.rdb = client
		}
	}
}

// New creates a fixed-window limiter allowing `limit` requests per
// `window` for each key.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether the request identified by key fits the current
// window.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	if l.rdb != nil {
		allowed, err := l.allowRedis(ctx, key)
		if err == nil {
			return allowed
		}
		log.Warn().Err(err).Str("key", key).Msg("rate limit counter unavailable, using in-process fallback")
	}
	return l.allowMemory(key)
}

func (l *Limiter) allowRedis(ctx context.Context, key string) (bool, error) {
	windowKey := fmt.Sprintf("ratelimit:%s:%d", key, time.Now().UnixMilli()/l.window.Milliseconds())
	count, err := l.rdb.Incr(ctx, windowKey).Result()
	if err != nil {
		return false, err
	}
	// NX on every hit: sets the TTL on the first increment and heals a
	// key left without one when an earlier EXPIRE failed mid-window.
	if err := l.rdb.ExpireNX(ctx, windowKey, l.window).Err(); err != nil {
		return false, err
	}
	return count <= int64(l.limit), nil
}

func (l *Limiter) allowMemory(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	if b.count >= l.limit {
		return false
	}
	b.count++
	return true
}
