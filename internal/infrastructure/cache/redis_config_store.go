package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

// DefaultWebhookConfigKey is where the export endpoint is stored
const DefaultWebhookConfigKey = "ledger:export:webhook"

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisWebhookConfigStore keeps the export endpoint as a JSON value under one key,
// so every instance sharing the Redis sees the same endpoint.
type RedisWebhookConfigStore struct {
	client *redis.Client
	key    string
}

// NewRedisWebhookConfigStore creates a store on an existing client. An empty key uses DefaultWebhookConfigKey.
func NewRedisWebhookConfigStore(client *redis.Client, key string) *RedisWebhookConfigStore {
	if key == "" {
		key = DefaultWebhookConfigKey
	}
	return &RedisWebhookConfigStore{client: client, key: key}
}

// Load returns the stored config, or the zero config when the key is absent
func (s *RedisWebhookConfigStore) Load(ctx context.Context) (export.WebhookConfig, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return export.WebhookConfig{}, nil
	}
	if err != nil {
		return export.WebhookConfig{}, fmt.Errorf("failed to read webhook config: %w", err)
	}
	var cfg export.WebhookConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return export.WebhookConfig{}, fmt.Errorf("failed to decode webhook config: %w", err)
	}
	return cfg, nil
}

// Save overwrites the stored config
func (s *RedisWebhookConfigStore) Save(ctx context.Context, cfg export.WebhookConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode webhook config: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write webhook config: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisWebhookConfigStore) Close() error {
	return s.client.Close()
}

var _ export.ConfigStorage = (*RedisWebhookConfigStore)(nil)
