// internal/cache/rating_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Roxeraf/pfep/internal/config"
	"github.com/Roxeraf/pfep/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	ratingKeyPrefix   = "pfep:ratings"
	ratingScanBatches = 100
)

// RatingCache caches ranked supplier tables. Keys include the catalog
// revision, so a mutated catalog naturally misses and stale entries age out
// via TTL.
type RatingCache interface {
	Get(ctx context.Context, revision uint64, filter domain.Filter) (*domain.SupplierRatingReport, bool, error)
	Set(ctx context.Context, revision uint64, filter domain.Filter, report *domain.SupplierRatingReport) error
	InvalidateAll(ctx context.Context) error
}

type redisRatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopRatingCache struct{}

// NewRatingCache returns a redis-backed cache when enabled, otherwise a noop
// implementation so callers never branch on configuration.
func NewRatingCache(cfg config.CacheConfig) (RatingCache, error) {
	if !cfg.Enabled {
		return &noopRatingCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisRatingCache{client: client, ttl: ttl}, nil
}

func NewNoopRatingCache() RatingCache {
	return &noopRatingCache{}
}

func (c *redisRatingCache) Get(ctx context.Context, revision uint64, filter domain.Filter) (*domain.SupplierRatingReport, bool, error) {
	payload, err := c.client.Get(ctx, buildRatingKey(revision, filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var report domain.SupplierRatingReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode rating cache: %w", err)
	}
	return &report, true, nil
}

func (c *redisRatingCache) Set(ctx context.Context, revision uint64, filter domain.Filter, report *domain.SupplierRatingReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode rating cache: %w", err)
	}

	if err := c.client.Set(ctx, buildRatingKey(revision, filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisRatingCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, ratingKeyPrefix, ratingScanBatches)
}

func (n *noopRatingCache) Get(ctx context.Context, revision uint64, filter domain.Filter) (*domain.SupplierRatingReport, bool, error) {
	return nil, false, nil
}

func (n *noopRatingCache) Set(ctx context.Context, revision uint64, filter domain.Filter, report *domain.SupplierRatingReport) error {
	return nil
}

func (n *noopRatingCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildRatingKey(revision uint64, filter domain.Filter) string {
	return fmt.Sprintf("%s:%d:%s", ratingKeyPrefix, revision, filterHash(filter))
}

func filterHash(filter domain.Filter) string {
	var parts []string

	if len(filter.Suppliers) > 0 {
		parts = append(parts, "suppliers="+joinSorted(filter.Suppliers))
	}
	if len(filter.PartNumbers) > 0 {
		parts = append(parts, "part_numbers="+joinSorted(filter.PartNumbers))
	}

	if len(parts) == 0 {
		return "default"
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func joinSorted(values []string) string {
	c := append([]string(nil), values...)
	for i := range c {
		c[i] = strings.TrimSpace(c[i])
	}
	sort.Strings(c)
	return strings.Join(c, ",")
}
