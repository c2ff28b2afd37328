// Package cache provides detection result caches. Two backends: an
// in-process expirable LRU for single-instance deployments, and Redis
// for sharing results across replicas.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"university-intent-service/internal/intent/repository"
	"university-intent-service/internal/model"
)

type lruCache struct {
	entries *expirable.LRU[string, model.DetectionResult]
}

// NewLRU creates an in-memory result cache with the given capacity and
// per-entry TTL.
func NewLRU(size int, ttl time.Duration) repository.ResultCache {
	return &lruCache{
		entries: expirable.NewLRU[string, model.DetectionResult](size, nil, ttl),
	}
}

func (c *lruCache) Get(ctx context.Context, key string) (model.DetectionResult, bool, error) {
	result, ok := c.entries.Get(key)
	return result, ok, nil
}

func (c *lruCache) Set(ctx context.Context, key string, result model.DetectionResult) error {
	c.entries.Add(key, result)
	return nil
}
