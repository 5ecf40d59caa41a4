package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"clinical-registry/internal/domain/entity"
	"clinical-registry/internal/testutil"

	"github.com/redis/go-redis/v9"
)

// memoryRedis implements the few commands the stats cache issues.
type memoryRedis struct {
	redis.Cmdable

	mu   sync.Mutex
	data map[string]string
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{data: make(map[string]string)}
}

func (m *memoryRedis) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memoryRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func TestStatsCache_DisabledWithoutClient(t *testing.T) {
	cache := NewStatsCache(nil, time.Minute, testutil.Logger(t))
	ctx := context.Background()

	cache.Set(ctx, 0, &entity.PatientRecordStats{Total: 3})
	if stats, _, ok := cache.Get(ctx); ok || stats != nil {
		t.Fatalf("disabled cache returned %+v", stats)
	}
	cache.Invalidate(ctx)
}

func TestStatsCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewStatsCache(client, time.Minute, testutil.Logger(t))
	ctx := context.Background()

	_, generation, ok := cache.Get(ctx)
	if ok {
		t.Fatal("expected a miss when redis is unreachable")
	}
	if generation >= 0 {
		t.Errorf("generation = %d, want negative for an unreadable cache", generation)
	}
	cache.Set(ctx, generation, &entity.PatientRecordStats{Total: 3})
	cache.Invalidate(ctx)
}

func TestStatsCache_RoundTripAndInvalidate(t *testing.T) {
	cache := NewStatsCache(newMemoryRedis(), time.Minute, testutil.Logger(t))
	ctx := context.Background()

	_, generation, ok := cache.Get(ctx)
	if ok || generation != 0 {
		t.Fatalf("empty cache: ok=%v generation=%d", ok, generation)
	}

	cache.Set(ctx, generation, &entity.PatientRecordStats{Total: 3, ByRisk: map[string]int64{"low": 3}})
	stats, _, ok := cache.Get(ctx)
	if !ok || stats.Total != 3 || stats.ByRisk["low"] != 3 {
		t.Fatalf("Get after Set = %+v, %v", stats, ok)
	}

	cache.Invalidate(ctx)
	if _, generation, ok := cache.Get(ctx); ok || generation != 1 {
		t.Fatalf("after Invalidate: ok=%v generation=%d", ok, generation)
	}
}

func TestStatsCache_SetAfterConcurrentInvalidateIsNotServed(t *testing.T) {
	cache := NewStatsCache(newMemoryRedis(), time.Minute, testutil.Logger(t))
	ctx := context.Background()

	// A reader misses and starts computing; a write lands before it stores.
	_, generation, _ := cache.Get(ctx)
	cache.Invalidate(ctx)
	cache.Set(ctx, generation, &entity.PatientRecordStats{Total: 1})

	if stats, _, ok := cache.Get(ctx); ok {
		t.Fatalf("stats computed before the invalidation were served: %+v", stats)
	}
}
