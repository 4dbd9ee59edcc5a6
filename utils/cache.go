package utils

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var cacheClient *redis.Client

// GetCacheClient returns the shared Redis client, creating it on first use.
// Returns nil when REDIS_ADDR is unset so callers can skip caching entirely.
func GetCacheClient() *redis.Client {
	if cacheClient != nil {
		return cacheClient
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}

	db := 0
	if v := os.Getenv("REDIS_CACHE_DB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			db = parsed
		}
	}

	cacheClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cacheClient.Ping(ctx).Err(); err != nil {
		logrus.Warnf("Redis unreachable at %s, caching disabled: %v", addr, err)
		cacheClient = nil
	}
	return cacheClient
}

// CacheJSON stores a JSON-encoded value under key with a TTL. Silently a
// no-op when caching is disabled.
func CacheJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	client := GetCacheClient()
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logrus.Debugf("cache set failed for %s: %v", key, err)
	}
}

// GetCachedJSON loads a JSON value by key into dest. Returns false on miss
// or when caching is disabled.
func GetCachedJSON(ctx context.Context, key string, dest interface{}) bool {
	client := GetCacheClient()
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// InvalidateCache drops the given keys after a write so list endpoints do
// not serve stale catalog data.
func InvalidateCache(ctx context.Context, keys ...string) {
	client := GetCacheClient()
	if client == nil || len(keys) == 0 {
		return
	}
	if err := client.Del(ctx, keys...).Err(); err != nil {
		logrus.Debugf("cache invalidation failed: %v", err)
	}
}
