package hierarchy

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SettingsCache caches effective (merged) settings per hierarchy node.
// Resolving effective settings walks the ancestor chain, so reads are
// cached and invalidated when a node or one of its ancestors changes.
type SettingsCache interface {
	// Get retrieves cached effective settings. Returns nil on cache miss.
	Get(ctx context.Context, nodeID uuid.UUID) (Settings, error)

	// Set stores effective settings. A zero ttl uses the cache default.
	Set(ctx context.Context, nodeID uuid.UUID, settings Settings, ttl time.Duration) error

	// Delete removes a single node's cached settings
	Delete(ctx context.Context, nodeID uuid.UUID) error

	// DeleteMany removes cached settings for multiple nodes, used when a
	// subtree changes and every descendant's effective settings go stale
	DeleteMany(ctx context.Context, nodeIDs []uuid.UUID) error

	// InvalidateAll removes all cached settings
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache
	Close() error
}

// CacheConfig holds settings cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// DefaultCacheConfig returns the default settings cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL: 5 * time.Minute,
	}
}
