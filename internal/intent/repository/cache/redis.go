package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
)

const redisKeyPrefix = "intent:detect:"

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed result cache. Entries expire after
// the given TTL.
func NewRedis(client *redis.Client, ttl time.Duration) repository.ResultCache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) (model.DetectionResult, bool, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.DetectionResult{}, false, nil
	}
	if err != nil {
		return model.DetectionResult{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	var result model.DetectionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.DetectionResult{}, false, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	return result, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, result model.DetectionResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
