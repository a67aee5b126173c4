package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeWindowStore is an in-memory windowStore; ttlSet records which
// keys hold a TTL and expireErrs fails the next ExpireNX calls.
type fakeWindowStore struct {
	counts     map[string]int64
	ttlSet     map[string]bool
	expireErrs int
}

func newFakeWindowStore() *fakeWindowStore {
	return &fakeWindowStore{counts: make(map[string]int64), ttlSet: make(map[string]bool)}
}

func (f *fakeWindowStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeWindowStore) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if f.expireErrs > 0 {
		f.expireErrs--
		return redis.NewBoolResult(false, errors.New("expire unavailable"))
	}
	if f.ttlSet[key] {
		return redis.NewBoolResult(false, nil)
	}
	f.ttlSet[key] = true
	return redis.NewBoolResult(true, nil)
}

func TestAllow_MemoryWindow(t *testing.T) {
	limiter := New(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ctx, "token1:1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow(ctx, "token1:1.2.3.4") {
		t.Fatal("request over the limit should be rejected")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	limiter := New(1, time.Minute)
	ctx := context.Background()

	if !limiter.Allow(ctx, "token1:1.2.3.4") {
		t.Fatal("first key should be allowed")
	}
	if limiter.Allow(ctx, "token1:1.2.3.4") {
		t.Fatal("first key should be exhausted")
	}
	if !limiter.Allow(ctx, "token1:5.6.7.8") {
		t.Fatal("different IP should have its own window")
	}
	if !limiter.Allow(ctx, "token2:1.2.3.4") {
		t.Fatal("different token should have its own window")
	}
}

func TestAllow_SharedWindowCounts(t *testing.T) {
	store := newFakeWindowStore()
	limiter := New(2, time.Minute)
	limiter.rdb = store
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if !limiter.Allow(ctx, "k") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow(ctx, "k") {
		t.Fatal("request over the shared limit should be rejected")
	}
}

func TestAllow_TTLHealedAfterExpireFailure(t *testing.T) {
	store := newFakeWindowStore()
	store.expireErrs = 1
	limiter := New(5, time.Minute)
	limiter.rdb = store
	ctx := context.Background()

	// first hit: INCR succeeds, EXPIRE fails, in-process fallback answers
	if !limiter.Allow(ctx, "k") {
		t.Fatal("fallback should allow the first request")
	}
	for _, hasTTL := range store.ttlSet {
		if hasTTL {
			t.Fatal("no TTL should be recorded while EXPIRE is failing")
		}
	}

	// next hit: the counter key is past count 1 but still gets its TTL
	if !limiter.Allow(ctx, "k") {
		t.Fatal("second request should be allowed")
	}
	healed := false
	for _, hasTTL := range store.ttlSet {
		if hasTTL {
			healed = true
		}
	}
	if !healed {
		t.Fatal("a later hit must set the missing TTL")
	}
}

func TestAllow_WindowResets(t *testing.T) {
	limiter := New(1, 20*time.Millisecond)
	ctx := context.Background()

	if !limiter.Allow(ctx, "k") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow(ctx, "k") {
		t.Fatal("second request in the same window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if !limiter.Allow(ctx, "k") {
		t.Fatal("request after window expiry should be allowed")
	}
}
