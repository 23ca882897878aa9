package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

const imagesCacheKey = "images:all"

// ImagesCache stores the full image listing in Redis
type ImagesCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewImagesCache creates a listing cache backed by the given Redis client
func NewImagesCache(client *redis.Client, ttl time.Duration) *ImagesCache {
	return &ImagesCache{client: client, ttl: ttl}
}

// Get returns the cached listing. ok is false on a cache miss.
func (c *ImagesCache) Get(ctx context.Context) ([]imagemodels.Record, bool, error) {
	cached, err := c.client.Get(ctx, imagesCacheKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read images cache: %w", err)
	}

	var records []imagemodels.Record
	if err := json.Unmarshal([]byte(cached), &records); err != nil {
		return nil, false, fmt.Errorf("failed to decode images cache: %w", err)
	}
	return records, true, nil
}

func (c *ImagesCache) Set(ctx context.Context, records []imagemodels.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode images cache: %w", err)
	}
	return c.client.Set(ctx, imagesCacheKey, data, c.ttl).Err()
}

func (c *ImagesCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, imagesCacheKey).Err()
}
