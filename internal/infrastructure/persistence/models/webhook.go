package models

import (
	"time"

	"github.com/oakline/ledger/internal/application/export"
)

// WebhookSettingsKey names the single settings row
const WebhookSettingsKey = "default"

// WebhookSettingModel persists the export endpoint configuration
type WebhookSettingModel struct {
	Name        string    `gorm:"type:varchar(50);primaryKey"`
	EndpointURL string    `gorm:"type:text;not null;default:''"`
	Enabled     bool      `gorm:"not null;default:false"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WebhookSettingModel) TableName() string {
	return "webhook_settings"
}

// WebhookSettingFromConfig converts an export config to the settings row
func WebhookSettingFromConfig(cfg export.WebhookConfig) *WebhookSettingModel {
	return &WebhookSettingModel{
		Name:        WebhookSettingsKey,
		EndpointURL: cfg.EndpointURL,
		Enabled:     cfg.Enabled,
	}
}

// ToConfig converts the settings row to an export config
func (m *WebhookSettingModel) ToConfig() export.WebhookConfig {
	return export.WebhookConfig{EndpointURL: m.EndpointURL, Enabled: m.Enabled}
}
