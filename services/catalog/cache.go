package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds the last assembled MenuData.
type Cache interface {
	Get(ctx context.Context) (*MenuData, bool, error)
	Set(ctx context.Context, data *MenuData) error
	Invalidate(ctx context.Context) error
}

const menuCacheKey = "menu:data"

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) (*RedisCache, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context) (*MenuData, bool, error) {
	raw, err := c.rdb.Get(ctx, menuCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var data MenuData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, false, fmt.Errorf("decode cached menu: %w", err)
	}
	return &data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, data *MenuData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode menu: %w", err)
	}
	return c.rdb.Set(ctx, menuCacheKey, raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, menuCacheKey).Err()
}
