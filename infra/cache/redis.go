// Package cache provides DistanceCache implementations: Redis for sharing
// estimates between service instances and an in-memory cache for one batch.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/haulware/routeopt/core/logger"
)

// Config defines Redis cache settings.
type Config struct {
	Addr       string `json:"addr"`
	Password   string `json:"password"`
	DB         int    `json:"db"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TTLMinutes <= 0 {
		c.TTLMinutes = 60
	}
}

// RedisCache stores distance estimates keyed by the location pair. Lookups
// never fail the caller: any Redis error reads as a miss.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewRedisCache creates a RedisCache.
func NewRedisCache(cfg Config, log logger.Logger) *RedisCache {
	cfg.SetDefaults()
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	return &RedisCache{
		client: client,
		ttl:    time.Duration(cfg.TTLMinutes) * time.Minute,
		log:    log,
	}
}

func key(a, b string) string {
	// Distances are symmetric; normalize the pair so both directions hit
	// the same key.
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("dist:%s|%s", a, b)
}

func (c *RedisCache) Get(ctx context.Context, a, b string) (float64, bool) {
	val, err := c.client.Get(ctx, key(a, b)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Debugf("cache get %s: %v", key(a, b), err)
		}
		return 0, false
	}
	km, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return km, true
}

func (c *RedisCache) Set(ctx context.Context, a, b string, km float64) {
	if err := c.client.Set(ctx, key(a, b), strconv.FormatFloat(km, 'f', -1, 64), c.ttl).Err(); err != nil {
		c.log.Debugf("cache set %s: %v", key(a, b), err)
	}
}

// Close releases the Redis client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
