package models

import (
	"time"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ProjectModel is the persistence model for a project header.
// Valuations, payments and supplier costs live in their own tables.
type ProjectModel struct {
	BaseModel
	Code           string               `gorm:"type:varchar(50);not null;index"`
	ClientName     string               `gorm:"type:varchar(200);not null"`
	Address        string               `gorm:"type:text"`
	Status         ledger.ProjectStatus `gorm:"type:varchar(20);not null;default:'active'"`
	HasCashPayment bool                 `gorm:"not null;default:false"`
	Notes          string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ProjectModelFromDomain converts a domain project header to a model
func ProjectModelFromDomain(p *ledger.Project) *ProjectModel {
	m := &ProjectModel{
		BaseModel:      BaseModel{ID: p.ID, CreatedAt: p.CreatedAt.UTC()},
		Code:           p.Code,
		ClientName:     p.ClientName,
		Address:        p.Address,
		Status:         p.Status,
		HasCashPayment: p.HasCashPayment,
		Notes:          p.Notes,
	}
	m.ensureID()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return m
}

// ToDomain converts the model to a domain project with empty collections
func (m *ProjectModel) ToDomain() *ledger.Project {
	return &ledger.Project{
		ID:             m.ID,
		Code:           m.Code,
		ClientName:     m.ClientName,
		Address:        m.Address,
		Status:         m.Status,
		HasCashPayment: m.HasCashPayment,
		Valuations:     []ledger.Valuation{},
		Payments:       []ledger.Payment{},
		SupplierCosts:  []ledger.SupplierCost{},
		CreatedAt:      m.CreatedAt,
		Notes:          m.Notes,
	}
}

// ValuationModel is the persistence model for a valuation.
// A NULL vat_rate means the default rate applies.
type ValuationModel struct {
	ProjectScoped
	Name       string           `gorm:"type:varchar(20);not null"`
	Date       time.Time        `gorm:"type:date;not null"`
	GrandTotal decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Omissions  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	VATRate    *decimal.Decimal `gorm:"column:vat_rate;type:decimal(5,4)"`
	Notes      string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ValuationModel) TableName() string {
	return "valuations"
}

// ValuationModelFromDomain converts a domain valuation to a model
func ValuationModelFromDomain(projectID string, v *ledger.Valuation) *ValuationModel {
	m := &ValuationModel{
		ProjectScoped: ProjectScoped{BaseModel: BaseModel{ID: v.ID}, ProjectID: projectID},
		Name:          v.Name,
		Date:          v.Date,
		GrandTotal:    v.GrandTotal,
		Omissions:     v.Omissions,
		VATRate:       v.VATRate,
		Notes:         v.Notes,
	}
	m.ensureID()
	return m
}

// ToDomain converts the model to a domain valuation
func (m *ValuationModel) ToDomain() ledger.Valuation {
	return ledger.Valuation{
		ID:         m.ID,
		Name:       m.Name,
		Date:       m.Date,
		GrandTotal: m.GrandTotal,
		Omissions:  m.Omissions,
		VATRate:    m.VATRate,
		Notes:      m.Notes,
	}
}

// PaymentModel is the persistence model for a client payment
type PaymentModel struct {
	ProjectScoped
	Date          time.Time          `gorm:"type:date;not null"`
	Amount        decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	VATRate       decimal.Decimal    `gorm:"column:vat_rate;type:decimal(5,4);not null;default:0"`
	Type          ledger.PaymentType `gorm:"type:varchar(20);not null"`
	ValuationName string             `gorm:"type:varchar(20)"`
	Description   string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentModelFromDomain converts a domain payment to a model
func PaymentModelFromDomain(projectID string, p *ledger.Payment) *PaymentModel {
	m := &PaymentModel{
		ProjectScoped: ProjectScoped{BaseModel: BaseModel{ID: p.ID}, ProjectID: projectID},
		Date:          p.Date,
		Amount:        p.Amount,
		VATRate:       p.VATRate,
		Type:          p.Type,
		ValuationName: p.ValuationName,
		Description:   p.Description,
	}
	m.ensureID()
	return m
}

// ToDomain converts the model to a domain payment
func (m *PaymentModel) ToDomain() ledger.Payment {
	return ledger.Payment{
		ID:            m.ID,
		Date:          m.Date,
		Amount:        m.Amount,
		VATRate:       m.VATRate,
		Type:          m.Type,
		ValuationName: m.ValuationName,
		Description:   m.Description,
	}
}

// SupplierCostModel is the persistence model for a supplier cost
type SupplierCostModel struct {
	ProjectScoped
	Date        time.Time       `gorm:"type:date;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Supplier    string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupplierCostModel) TableName() string {
	return "supplier_costs"
}

// SupplierCostModelFromDomain converts a domain supplier cost to a model
func SupplierCostModelFromDomain(projectID string, c *ledger.SupplierCost) *SupplierCostModel {
	m := &SupplierCostModel{
		ProjectScoped: ProjectScoped{BaseModel: BaseModel{ID: c.ID}, ProjectID: projectID},
		Date:          c.Date,
		Amount:        c.Amount,
		Supplier:      c.Supplier,
		Description:   c.Description,
	}
	m.ensureID()
	return m
}

// ToDomain converts the model to a domain supplier cost
func (m *SupplierCostModel) ToDomain() ledger.SupplierCost {
	return ledger.SupplierCost{
		ID:          m.ID,
		Date:        m.Date,
		Amount:      m.Amount,
		Supplier:    m.Supplier,
		Description: m.Description,
	}
}

// OperationalCostModel is the persistence model for a business overhead
type OperationalCostModel struct {
	BaseModel
	Date        time.Time       `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Category    string          `gorm:"type:varchar(100);not null"`
	CostType    ledger.CostType `gorm:"type:varchar(20);not null"`
	Description string          `gorm:"type:text"`
	IsRecurring bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OperationalCostModel) TableName() string {
	return "operational_costs"
}

// OperationalCostModelFromDomain converts a domain operational cost to a model
func OperationalCostModelFromDomain(c *ledger.OperationalCost) *OperationalCostModel {
	m := &OperationalCostModel{
		BaseModel:   BaseModel{ID: c.ID},
		Date:        c.Date,
		Amount:      c.Amount,
		Category:    c.Category,
		CostType:    c.CostType,
		Description: c.Description,
		IsRecurring: c.IsRecurring,
	}
	m.ensureID()
	m.CreatedAt = time.Now().UTC()
	return m
}

// ToDomain converts the model to a domain operational cost
func (m *OperationalCostModel) ToDomain() ledger.OperationalCost {
	return ledger.OperationalCost{
		ID:          m.ID,
		Date:        m.Date,
		Amount:      m.Amount,
		Category:    m.Category,
		CostType:    m.CostType,
		Description: m.Description,
		IsRecurring: m.IsRecurring,
	}
}

// AllModels lists every ledger model, for AutoMigrate in tests and the sqlite driver
func AllModels() []any {
	return []any{
		&ProjectModel{},
		&ValuationModel{},
		&PaymentModel{},
		&SupplierCostModel{},
		&OperationalCostModel{},
		&WebhookSettingModel{},
	}
}
