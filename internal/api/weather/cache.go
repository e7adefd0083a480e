package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Cache stores formatted weather strings per location.
type Cache interface {
	// Get reports ok=false on a miss; err is reserved for backend failures.
	Get(ctx context.Context, location string) (value string, ok bool, err error)
	Set(ctx context.Context, location, value string) error
}

func key(location string) string {
	return "weather:" + strings.ToLower(strings.TrimSpace(location))
}

// MemoryCache is an in-process cache backed by go-cache.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, location string) (string, bool, error) {
	v, ok := m.c.Get(key(location))
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, location, value string) error {
	m.c.SetDefault(key(location), value)
	return nil
}

// RedisCache shares cached weather across instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, location string) (string, bool, error) {
	val, err := r.client.Get(ctx, key(location)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get for %s: %w", location, err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, location, value string) error {
	if err := r.client.Set(ctx, key(location), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for %s: %w", location, err)
	}
	return nil
}

// ConnectRedis parses redisURL, creates a client and verifies it with a ping.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
