package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/orderhub/backend/internal/domain/hierarchy"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory creates cache-backed components based on Redis availability.
// When Redis cannot be reached and fallback is allowed, in-memory
// implementations are used instead.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool

	client *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory
// implementations when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new cache factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Client returns a shared Redis client, connecting on first use
func (f *Factory) Client() (*redis.Client, error) {
	if f.client != nil {
		return f.client, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         f.redisConfig.Addr(),
		Password:     f.redisConfig.Password,
		DB:           f.redisConfig.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	f.client = client
	return client, nil
}

// CreateIdempotencyStore creates a Redis-backed idempotency store, falling
// back to in-memory when Redis is unavailable and fallback is allowed.
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.Client()
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"This may cause duplicate event processing in distributed deployments.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

// CreateSettingsCache creates a Redis-backed settings cache, falling back
// to in-memory when Redis is unavailable and fallback is allowed.
func (f *Factory) CreateSettingsCache() (hierarchy.SettingsCache, error) {
	client, err := f.Client()
	if err == nil {
		f.logger.Info("using Redis settings cache")
		return NewRedisSettingsCache(client, WithSettingsCacheLogger(f.logger)), nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for settings cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory settings cache",
		zap.Error(err),
	)
	return NewInMemorySettingsCache(WithInMemorySettingsLogger(f.logger)), nil
}

// Close releases the shared Redis client
func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
