package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Subsystem prefixes for cache keys.
const (
	KeyJWKS = "jwks"
)

// Cache is the interface used for caching rendered responses. Values are
// json-serialized so the in-memory and redis implementations behave the same.
type Cache interface {
	// Get retrieves the value for key into target; false if not present.
	Get(key string, target any) (bool, error)
	// Set stores value at key for the given expiration.
	Set(key string, value any, expiration time.Duration) error
}

type memoryCache struct {
	c *gocache.Cache
}

func newMemoryCache() memoryCache {
	return memoryCache{c: gocache.New(time.Hour, 10*time.Minute)}
}

func (m memoryCache) Get(key string, target any) (bool, error) {
	entry, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := entry.([]byte)
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, target)
}

func (m memoryCache) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.c.Set(key, data, expiration)
	return nil
}

type redisCache struct {
	client *redis.Client
}

func (r redisCache) Get(key string, target any) (bool, error) {
	data, err := r.client.Get(context.Background(), key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return true, json.Unmarshal(data, target)
}

func (r redisCache) Set(key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(context.Background(), key, data, expiration).Err()
}

var std Cache = newMemoryCache()

// UseRedis switches the package-level cache to redis. The connection is
// verified before the switch so a misconfigured address fails at startup.
func UseRedis(options *redis.Options) error {
	client := redis.NewClient(options)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}
	std = redisCache{client: client}
	return nil
}

// SetCache replaces the package-level cache implementation.
func SetCache(c Cache) {
	std = c
}

// Key combines a subsystem prefix and identifiers into a cache key.
func Key(subsystem string, subkeys ...string) string {
	return subsystem + ":" + strings.Join(subkeys, ":")
}

// Get retrieves the value for key from the package-level cache.
func Get(key string, target any) (bool, error) {
	return std.Get(key, target)
}

// Set stores value at key in the package-level cache.
func Set(key string, value any, expiration time.Duration) error {
	return std.Set(key, value, expiration)
}
