package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides JSON caching under a key prefix
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A miss returns (false, nil).
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores value as JSON. ttl <= 0 uses the client default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	return c.setRaw(ctx, key, data, ttl)
}

func (c *Cache) setRaw(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.client.DefaultTTL()
	}
	return c.client.rdb.Set(ctx, c.fullKey(key), data, ttl).Err()
}

// GetOrSet fills dest from the cache, or from fn on a miss and stores the result.
// A broken cache degrades to calling fn; hit reports whether dest came from Redis.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) (hit bool, err error) {
	if found, err := c.Get(ctx, key, dest); err == nil && found {
		return true, nil
	}

	value, err := fn()
	if err != nil {
		return false, err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("cache marshal failed: %w", err)
	}
	if c.client.Enabled() {
		_ = c.setRaw(ctx, key, data, ttl)
	}
	return false, json.Unmarshal(data, dest)
}

// FallbackTTL applies when REDIS_CACHE_TTL is unset; reports are immutable per input and assumption set
const FallbackTTL = 24 * time.Hour

// ReportKey identifies an analysis report by input digest and assumption set
func ReportKey(inputDigest, assumptionsHash string) string {
	return fmt.Sprintf("report:%s:%s", inputDigest, assumptionsHash)
}

// ArchivedReportKey identifies one archived run
func ArchivedReportKey(runID string) string {
	return fmt.Sprintf("archive:%s", runID)
}
