package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a thin JSON cache over Redis for hot catalog reads. A Cache built
// without an address is a no-op, so Redis stays optional in every environment.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewCache connects to Redis; an empty addr disables caching entirely
func NewCache(addr, password string, db int, ttl time.Duration, logger *logrus.Logger) *Cache {
	if addr == "" {
		return &Cache{ttl: ttl, logger: logger}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether a Redis client is configured
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// GetJSON loads a cached value into dest, reporting whether it was a hit
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache entry is not valid JSON")
		return false
	}
	return true
}

// SetJSON stores a value under the cache TTL, best effort
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to marshal cache value")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}

// Invalidate drops keys after an admin mutation
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).Warn("Cache invalidation failed")
	}
}

// Ping checks the Redis connection for the health endpoint
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
