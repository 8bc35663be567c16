package cache

import (
	"context"
	"sync"

	"github.com/oakline/ledger/internal/application/export"
)

// InMemoryWebhookConfigStore keeps the export endpoint in process memory.
// Saved values are lost on restart.
type InMemoryWebhookConfigStore struct {
	mu  sync.RWMutex
	cfg export.WebhookConfig
}

// NewInMemoryWebhookConfigStore creates a store holding initial
func NewInMemoryWebhookConfigStore(initial export.WebhookConfig) *InMemoryWebhookConfigStore {
	return &InMemoryWebhookConfigStore{cfg: initial}
}

// Load returns the held config
func (s *InMemoryWebhookConfigStore) Load(ctx context.Context) (export.WebhookConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg, nil
}

// Save replaces the held config
func (s *InMemoryWebhookConfigStore) Save(ctx context.Context, cfg export.WebhookConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	return nil
}

var _ export.ConfigStorage = (*InMemoryWebhookConfigStore)(nil)
