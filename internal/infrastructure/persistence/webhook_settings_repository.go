package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWebhookSettingsRepository stores the export endpoint in the webhook_settings table
type GormWebhookSettingsRepository struct {
	db *gorm.DB
}

// NewGormWebhookSettingsRepository creates a new GormWebhookSettingsRepository
func NewGormWebhookSettingsRepository(db *gorm.DB) *GormWebhookSettingsRepository {
	return &GormWebhookSettingsRepository{db: db}
}

// Load returns the saved configuration, or the zero config when nothing was saved
func (r *GormWebhookSettingsRepository) Load(ctx context.Context) (export.WebhookConfig, error) {
	var m models.WebhookSettingModel
	err := r.db.WithContext(ctx).First(&m, "name = ?", models.WebhookSettingsKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return export.WebhookConfig{}, nil
	}
	if err != nil {
		return export.WebhookConfig{}, fmt.Errorf("load webhook settings: %w", err)
	}
	return m.ToConfig(), nil
}

// Save upserts the single settings row
func (r *GormWebhookSettingsRepository) Save(ctx context.Context, cfg export.WebhookConfig) error {
	m := models.WebhookSettingFromConfig(cfg)
	m.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"endpoint_url", "enabled", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("save webhook settings: %w", err)
	}
	return nil
}

var _ export.ConfigStorage = (*GormWebhookSettingsRepository)(nil)
