package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rezzai/jobsearch/internal/model"
)

// Cache holds normalised provider pages. Ranking is not cached because it
// depends on the caller's full location.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.Job, bool, error)
	Set(ctx context.Context, key string, jobs []model.Job) error
}

// RedisCache stores pages as JSON strings with a TTL.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a cache whose entries expire after ttl.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.Job, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var jobs []model.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, false, fmt.Errorf("decode cached page %s: %w", key, err)
	}
	return jobs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, jobs []model.Job) error {
	raw, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
