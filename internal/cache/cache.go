package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"storefront/internal/config"
	"storefront/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	keyNamespace = "storefront"
	versionKey   = keyNamespace + ":feed:version"
)

type cmdable interface {
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Incr(context.Context, string) *redis.IntCmd
}

// FeedCache stores product feed pages in Redis. Entries are keyed by a
// version counter, so bumping the counter invalidates every page at once and
// stale entries simply expire.
type FeedCache struct {
	store  cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewFeedCache creates a feed cache on top of a Redis client.
func NewFeedCache(store cmdable, ttl time.Duration, logger zerolog.Logger) *FeedCache {
	return &FeedCache{
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "feed_cache").Logger(),
	}
}

// Get returns a cached page. Any Redis failure is reported as a miss.
func (c *FeedCache) Get(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, bool) {
	if c == nil || c.store == nil {
		return model.ProductPage{}, false
	}

	key, err := c.pageKey(ctx, slug, page, pageSize)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read feed cache version")
		return model.ProductPage{}, false
	}

	raw, err := c.store.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to read feed cache")
		}
		return model.ProductPage{}, false
	}

	var cached model.ProductPage
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable feed cache entry")
		return model.ProductPage{}, false
	}
	if cached.Items == nil {
		cached.Items = []model.Product{}
	}

	return cached, true
}

// Set stores a page under the current version.
func (c *FeedCache) Set(ctx context.Context, slug string, page, pageSize int, result model.ProductPage) error {
	if c == nil || c.store == nil {
		return nil
	}

	key, err := c.pageKey(ctx, slug, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to read feed cache version: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode feed page: %w", err)
	}

	if err := c.store.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write feed cache: %w", err)
	}

	return nil
}

// Invalidate drops every cached page by bumping the version counter.
func (c *FeedCache) Invalidate(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	if err := c.store.Incr(ctx, versionKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate feed cache: %w", err)
	}
	return nil
}

func (c *FeedCache) pageKey(ctx context.Context, slug string, page, pageSize int) (string, error) {
	version := int64(0)
	raw, err := c.store.Get(ctx, versionKey).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return "", err
	default:
		if version, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return "", fmt.Errorf("invalid feed cache version %q: %w", raw, err)
		}
	}
	return PageKey(version, slug, page, pageSize), nil
}

// PageKey builds the Redis key for one feed page.
func PageKey(version int64, slug string, page, pageSize int) string {
	if slug == "" {
		slug = "_all"
	}
	return fmt.Sprintf("%s:feed:v%d:%s:%d:%d", keyNamespace, version, slug, page, pageSize)
}
