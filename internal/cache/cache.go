// Package cache is the response cache shared by the homepage, promo code
// and statistics reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/estate-agency/internal/config"
)

// Key names one cached value.
type Key string

const (
	KeyHomeFeatured  Key = "home:featured"
	KeyPromoList     Key = "promo:list"
	KeyStatsOverview Key = "stats:overview"
)

// Keys lists the whole key space.
var Keys = []Key{KeyHomeFeatured, KeyPromoList, KeyStatsOverview}

//go:generate mockgen -destination=../mocks/cache_mock.go -package=mocks github.com/spec-kit/estate-agency/internal/cache Cache

// Cache stores JSON encoded values under a fixed key space.
type Cache interface {
	Get(ctx context.Context, key Key, dest any) (bool, error)
	Set(ctx context.Context, key Key, value any) error
	Delete(ctx context.Context, keys ...Key) error
}

// TTLs maps each key to its lifetime.
type TTLs map[Key]time.Duration

// TTLsFromConfig reads the per-key lifetimes.
func TTLsFromConfig(cfg config.CacheConfig) TTLs {
	return TTLs{
		KeyHomeFeatured:  time.Duration(cfg.HomepageTTLSeconds) * time.Second,
		KeyPromoList:     time.Duration(cfg.PromoTTLSeconds) * time.Second,
		KeyStatsOverview: time.Duration(cfg.StatsTTLSeconds) * time.Second,
	}
}

// RedisCache is the go-redis backed Cache.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttls   TTLs
}

// NewRedisCache builds a cache on client.
func NewRedisCache(client *redis.Client, prefix string, ttls TTLs) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttls: ttls}
}

func (c *RedisCache) name(key Key) string {
	if c.prefix == "" {
		return string(key)
	}
	return c.prefix + ":" + string(key)
}

// Get decodes the cached value into dest and reports whether it was present.
func (c *RedisCache) Get(ctx context.Context, key Key, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.name(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

// Set stores value with the TTL configured for key.
func (c *RedisCache) Set(ctx context.Context, key Key, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.name(key), data, c.ttls[key]).Err()
}

// Delete drops the given keys.
func (c *RedisCache) Delete(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, c.name(key))
	}
	return c.client.Del(ctx, names...).Err()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, Key, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, Key, any) error         { return nil }
func (Nop) Delete(context.Context, ...Key) error        { return nil }

// Remember returns the cached value for key or loads, stores and returns it.
// Cache failures are logged and fall through to load.
func Remember[T any](ctx context.Context, c Cache, logger *zap.Logger, key Key, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache read failed", zap.String("key", string(key)), zap.Error(err))
	} else if hit {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		logger.Warn("cache write failed", zap.String("key", string(key)), zap.Error(err))
	}
	return value, nil
}

// Invalidate drops keys and logs a failure instead of returning it.
func Invalidate(ctx context.Context, c Cache, logger *zap.Logger, keys ...Key) {
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
