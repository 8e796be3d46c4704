package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const settingsScanBatchSize = 100

// RedisSettingsCache implements hierarchy.SettingsCache using Redis
type RedisSettingsCache struct {
	client     *redis.Client
	ownsClient bool
	config     hierarchy.CacheConfig
	logger     *zap.Logger
}

// RedisSettingsCacheOption is a functional option for configuring the cache
type RedisSettingsCacheOption func(*RedisSettingsCache)

// WithSettingsCacheConfig sets the cache configuration
func WithSettingsCacheConfig(config hierarchy.CacheConfig) RedisSettingsCacheOption {
	return func(c *RedisSettingsCache) {
		c.config = config
	}
}

// WithSettingsCacheLogger sets the logger for the cache
func WithSettingsCacheLogger(logger *zap.Logger) RedisSettingsCacheOption {
	return func(c *RedisSettingsCache) {
		c.logger = logger
	}
}

// NewRedisSettingsCache creates a cache with an existing Redis client. The
// caller retains ownership of the client and is responsible for closing it.
func NewRedisSettingsCache(client *redis.Client, opts ...RedisSettingsCacheOption) *RedisSettingsCache {
	cache := &RedisSettingsCache{
		client:     client,
		ownsClient: false,
		config:     hierarchy.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisSettingsCache) cacheKey(nodeID uuid.UUID) string {
	return "hierarchy:settings:" + nodeID.String()
}

// Get retrieves effective settings from cache
func (c *RedisSettingsCache) Get(ctx context.Context, nodeID uuid.UUID) (hierarchy.Settings, error) {
	key := c.cacheKey(nodeID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings from cache: %w", err)
	}

	var settings hierarchy.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		// corrupted entry, drop it
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return settings, nil
}

// Set stores effective settings in cache
func (c *RedisSettingsCache) Set(ctx context.Context, nodeID uuid.UUID, settings hierarchy.Settings, ttl time.Duration) error {
	if settings == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.TTL
	}

	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := c.client.Set(ctx, c.cacheKey(nodeID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set settings in cache: %w", err)
	}
	return nil
}

// Delete removes a single node's cached settings
func (c *RedisSettingsCache) Delete(ctx context.Context, nodeID uuid.UUID) error {
	if err := c.client.Del(ctx, c.cacheKey(nodeID)).Err(); err != nil {
		return fmt.Errorf("failed to delete settings from cache: %w", err)
	}
	return nil
}

// DeleteMany removes cached settings for multiple nodes
func (c *RedisSettingsCache) DeleteMany(ctx context.Context, nodeIDs []uuid.UUID) error {
	if len(nodeIDs) == 0 {
		return nil
	}
	keys := make([]string, len(nodeIDs))
	for i, id := range nodeIDs {
		keys[i] = c.cacheKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete settings from cache: %w", err)
	}
	return nil
}

// InvalidateAll removes all cached settings. Uses SCAN to avoid blocking
// Redis with KEYS.
func (c *RedisSettingsCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	var deletedCount int64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, "hierarchy:settings:*", settingsScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Info("invalidated settings cache", zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases the Redis client if this cache owns it
func (c *RedisSettingsCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ hierarchy.SettingsCache = (*RedisSettingsCache)(nil)
