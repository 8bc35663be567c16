package models

import (
	"time"

	"github.com/oakline/ledger/internal/domain/shared"
)

// BaseModel provides the columns every ledger table shares.
// IDs are generated by the domain, so the model never assigns one unless it is missing.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ensureID fills a missing ID
func (m *BaseModel) ensureID() {
	if m.ID == "" {
		m.ID = shared.NewID()
	}
}

// ProjectScoped is embedded by every model that belongs to a project
type ProjectScoped struct {
	BaseModel
	ProjectID string `gorm:"type:varchar(36);not null;index"`
}
