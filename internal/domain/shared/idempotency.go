package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks processed event IDs so cross-context event
// handlers can dedupe redeliveries from the outbox.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL. Returns true if
	// the event was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long processed event IDs are retained
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL: 24 * time.Hour,
	}
}
