package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"store-route-optimizer/internal/ports"
)

// RedisResultCache stores fully computed optimization results keyed by
// grid fingerprint and distance threshold, so identical requests against
// an unchanged layout skip the whole pipeline.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{client: client, ttl: ttl}
}

func resultKey(fingerprint uint64, threshold float64) string {
	return fmt.Sprintf("route:%016x:%g", fingerprint, threshold)
}

func (c *RedisResultCache) Get(
	ctx context.Context,
	fingerprint uint64,
	threshold float64,
) (*ports.OptimizeResult, bool, error) {
	if c.client == nil {
		return nil, false, errors.New("result cache: client is nil")
	}

	raw, err := c.client.Get(ctx, resultKey(fingerprint, threshold)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("result cache get: %w", err)
	}

	var res ports.OptimizeResult
	if err := json.Unmarshal(raw, &res); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, false, nil
	}
	return &res, true, nil
}

func (c *RedisResultCache) Put(
	ctx context.Context,
	fingerprint uint64,
	threshold float64,
	res *ports.OptimizeResult,
) error {
	if c.client == nil {
		return errors.New("result cache: client is nil")
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("result cache put: marshal: %w", err)
	}

	if err := c.client.Set(ctx, resultKey(fingerprint, threshold), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("result cache put: %w", err)
	}
	return nil
}
