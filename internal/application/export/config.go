package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/oakline/ledger/internal/domain/shared"
)

// WebhookConfig is the endpoint the snapshot is exported to
type WebhookConfig struct {
	EndpointURL string `json:"endpointUrl"`
	Enabled     bool   `json:"enabled"`
}

// Active reports whether exports should be sent
func (c WebhookConfig) Active() bool {
	return c.Enabled && strings.TrimSpace(c.EndpointURL) != ""
}

// Validate checks the endpoint URL when one is set
func (c WebhookConfig) Validate() error {
	raw := strings.TrimSpace(c.EndpointURL)
	if raw == "" {
		if c.Enabled {
			return shared.NewDomainError("INVALID_WEBHOOK_URL", "Endpoint URL is required when export is enabled")
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return shared.NewDomainError("INVALID_WEBHOOK_URL", fmt.Sprintf("Endpoint URL %q must be an absolute http(s) URL", raw))
	}
	return nil
}

// ConfigStorage loads and saves the webhook configuration
type ConfigStorage interface {
	Load(ctx context.Context) (WebhookConfig, error)
	Save(ctx context.Context, cfg WebhookConfig) error
}

// LoadConfig reads the stored configuration, falling back to fallback when
// nothing has been stored yet or the storage fails.
func LoadConfig(ctx context.Context, storage ConfigStorage, fallback WebhookConfig) (WebhookConfig, error) {
	if storage == nil {
		return fallback, nil
	}
	cfg, err := storage.Load(ctx)
	if err != nil {
		return fallback, err
	}
	if cfg.EndpointURL == "" && !cfg.Enabled {
		return fallback, nil
	}
	return cfg, nil
}

var (
	// ErrExportNotConfigured is returned when an export is requested without an endpoint
	ErrExportNotConfigured = shared.NewDomainError("EXPORT_NOT_CONFIGURED", "No export endpoint is configured")
	// ErrStorageNotConfigured is returned when publishing without object storage
	ErrStorageNotConfigured = shared.NewDomainError("STORAGE_NOT_CONFIGURED", "Object storage is not configured")
)
