package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/corpotravel/trip-management/internal/estimate"

	"github.com/redis/go-redis/v9"
)

// Cache stores per-destination trip cost aggregates in Redis so repeated
// estimate requests skip the analytics query.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func key(destination string) string {
	return "estimate:destination:" + destination
}

func (c *Cache) GetStats(ctx context.Context, destination string) (*estimate.DestinationStats, error) {
	raw, err := c.client.Get(ctx, key(destination)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats estimate.DestinationStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Cache) SetStats(ctx context.Context, stats *estimate.DestinationStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(stats.Destination), raw, c.ttl).Err()
}
