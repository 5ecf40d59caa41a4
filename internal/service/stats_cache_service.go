package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinical-registry/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisStatsKey           = "registry:stats:patients"
	RedisStatsGenerationKey = "registry:stats:patients:gen"

	redisCacheTimeout = 2 * time.Second
)

// StatsCache keeps the last computed aggregate so repeated dashboard loads
// skip the grouping queries.
//
// Entries are keyed by generation. Get reports the generation it observed and
// Set stores under that generation only, so stats computed before a
// concurrent Invalidate are never served afterwards.
type StatsCache interface {
	Get(ctx context.Context) (stats *entity.PatientRecordStats, generation int64, ok bool)
	Set(ctx context.Context, generation int64, stats *entity.PatientRecordStats)
	Invalidate(ctx context.Context)
}

type redisStatsCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logrus.Logger
}

// NewStatsCache returns a Redis-backed cache, or a no-op cache when client is nil.
func NewStatsCache(client redis.Cmdable, ttl time.Duration, log *logrus.Logger) StatsCache {
	if client == nil {
		return nopStatsCache{}
	}
	return &redisStatsCache{client: client, ttl: ttl, log: log}
}

func statsKey(generation int64) string {
	return fmt.Sprintf("%s:%d", RedisStatsKey, generation)
}

// Get returns the cached stats of the current generation. A negative
// generation means the cache could not be read.
func (c *redisStatsCache) Get(ctx context.Context) (*entity.PatientRecordStats, int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	generation, err := c.client.Get(ctx, RedisStatsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		generation = 0
	} else if err != nil {
		c.log.Warnf("Failed to read stats cache generation: %+v", err)
		return nil, -1, false
	}

	raw, err := c.client.Get(ctx, statsKey(generation)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Failed to read stats cache: %+v", err)
		}
		return nil, generation, false
	}

	var stats entity.PatientRecordStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warnf("Discarding malformed stats cache entry: %+v", err)
		return nil, generation, false
	}
	return &stats, generation, true
}

func (c *redisStatsCache) Set(ctx context.Context, generation int64, stats *entity.PatientRecordStats) {
	if generation < 0 {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		c.log.Warnf("Failed to encode stats: %+v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := c.client.Set(ctx, statsKey(generation), raw, c.ttl).Err(); err != nil {
		c.log.Warnf("Failed to write stats cache: %+v", err)
	}
}

// Invalidate moves to a new generation. Entries of older generations are
// never read again and expire with their TTL.
func (c *redisStatsCache) Invalidate(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
	defer cancel()

	if err := c.client.Incr(ctx, RedisStatsGenerationKey).Err(); err != nil {
		c.log.Warnf("Failed to invalidate stats cache: %+v", err)
	}
}

type nopStatsCache struct{}

func (nopStatsCache) Get(context.Context) (*entity.PatientRecordStats, int64, bool) {
	return nil, -1, false
}
func (nopStatsCache) Set(context.Context, int64, *entity.PatientRecordStats) {}
func (nopStatsCache) Invalidate(context.Context)                             {}
