package cache

import (
	"context"
	"fmt"

	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ConfigStoreFactory builds the key-value webhook config stores
type ConfigStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ConfigStoreFactoryOption is a functional option for configuring the factory
type ConfigStoreFactoryOption func(*ConfigStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ConfigStoreFactoryOption {
	return func(f *ConfigStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the in-memory store.
// Default is true.
func WithInMemoryFallback(allow bool) ConfigStoreFactoryOption {
	return func(f *ConfigStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewConfigStoreFactory creates a new factory
func NewConfigStoreFactory(cfg config.RedisConfig, opts ...ConfigStoreFactoryOption) *ConfigStoreFactory {
	f := &ConfigStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateRedisStore connects to Redis and returns a store on it
func (f *ConfigStoreFactory) CreateRedisStore(ctx context.Context) (*RedisWebhookConfigStore, error) {
	client, err := NewRedisClient(ctx, f.redisConfig)
	if err != nil {
		return nil, err
	}
	return NewRedisWebhookConfigStore(client, ""), nil
}

// CreateStore returns the Redis store, or an in-memory store seeded with
// initial when Redis is unavailable and fallback is allowed.
func (f *ConfigStoreFactory) CreateStore(ctx context.Context, initial export.WebhookConfig) (export.ConfigStorage, error) {
	store, err := f.CreateRedisStore(ctx)
	if err == nil {
		f.logger.Info("using Redis webhook config store", zap.String("addr", f.redisConfig.Addr()))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for webhook config but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, webhook config will not survive a restart",
		zap.Error(err),
	)
	return NewInMemoryWebhookConfigStore(initial), nil
}
