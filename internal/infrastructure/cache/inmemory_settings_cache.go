package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/hierarchy"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// InMemorySettingsCache implements hierarchy.SettingsCache in process
// memory. Suitable for tests and single-instance deployments; it does not
// share state across instances.
type InMemorySettingsCache struct {
	entries sync.Map // map[uuid.UUID]*settingsEntry
	config  hierarchy.CacheConfig
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type settingsEntry struct {
	settings  hierarchy.Settings
	expiresAt time.Time
}

func (e *settingsEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemorySettingsCacheOption is a functional option for configuring the cache
type InMemorySettingsCacheOption func(*InMemorySettingsCache)

// WithInMemorySettingsConfig sets the cache configuration
func WithInMemorySettingsConfig(config hierarchy.CacheConfig) InMemorySettingsCacheOption {
	return func(c *InMemorySettingsCache) {
		c.config = config
	}
}

// WithInMemorySettingsLogger sets the logger for the cache
func WithInMemorySettingsLogger(logger *zap.Logger) InMemorySettingsCacheOption {
	return func(c *InMemorySettingsCache) {
		c.logger = logger
	}
}

// NewInMemorySettingsCache creates a new in-memory settings cache
func NewInMemorySettingsCache(opts ...InMemorySettingsCacheOption) *InMemorySettingsCache {
	cache := &InMemorySettingsCache{
		config: hierarchy.DefaultCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves effective settings from cache
func (c *InMemorySettingsCache) Get(_ context.Context, nodeID uuid.UUID) (hierarchy.Settings, error) {
	if value, ok := c.entries.Load(nodeID); ok {
		entry := value.(*settingsEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.settings, nil
		}
		c.entries.Delete(nodeID)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores effective settings in cache
func (c *InMemorySettingsCache) Set(_ context.Context, nodeID uuid.UUID, settings hierarchy.Settings, ttl time.Duration) error {
	if settings == nil {
		return nil
	}
	if ttl == 0 {
		ttl = c.config.TTL
	}

	c.entries.Store(nodeID, &settingsEntry{
		settings:  settings,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete removes a single node's cached settings
func (c *InMemorySettingsCache) Delete(_ context.Context, nodeID uuid.UUID) error {
	c.entries.Delete(nodeID)
	return nil
}

// DeleteMany removes cached settings for multiple nodes
func (c *InMemorySettingsCache) DeleteMany(_ context.Context, nodeIDs []uuid.UUID) error {
	for _, id := range nodeIDs {
		c.entries.Delete(id)
	}
	return nil
}

// InvalidateAll removes all cached settings
func (c *InMemorySettingsCache) InvalidateAll(_ context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemorySettingsCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemorySettingsCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemorySettingsCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*settingsEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("cleaned up expired settings cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}

var _ hierarchy.SettingsCache = (*InMemorySettingsCache)(nil)
