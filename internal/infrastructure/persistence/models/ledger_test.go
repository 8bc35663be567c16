package models

import (
	"testing"
	"time"

	"github.com/oakline/ledger/internal/application/export"
	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "projects", ProjectModel{}.TableName())
	assert.Equal(t, "valuations", ValuationModel{}.TableName())
	assert.Equal(t, "payments", PaymentModel{}.TableName())
	assert.Equal(t, "supplier_costs", SupplierCostModel{}.TableName())
	assert.Equal(t, "operational_costs", OperationalCostModel{}.TableName())
	assert.Equal(t, "webhook_settings", WebhookSettingModel{}.TableName())
	assert.Len(t, AllModels(), 6)
}

func TestProjectModel_RoundTrip(t *testing.T) {
	p, err := ledger.NewProject("KIT-001", "Mrs Patel", "4 Mill Lane", true)
	require.NoError(t, err)
	p.Notes = "shaker doors"

	m := ProjectModelFromDomain(p)
	assert.Equal(t, p.ID, m.ID)
	assert.Equal(t, time.UTC, m.CreatedAt.Location())

	back := m.ToDomain()
	assert.Equal(t, p.Code, back.Code)
	assert.Equal(t, p.ClientName, back.ClientName)
	assert.Equal(t, p.Address, back.Address)
	assert.Equal(t, p.Status, back.Status)
	assert.True(t, back.HasCashPayment)
	assert.Equal(t, "shaker doors", back.Notes)
	assert.True(t, p.CreatedAt.Equal(back.CreatedAt))
	assert.NotNil(t, back.Valuations)
	assert.NotNil(t, back.Payments)
	assert.NotNil(t, back.SupplierCosts)
}

func TestModels_AssignMissingIDs(t *testing.T) {
	m := OperationalCostModelFromDomain(&ledger.OperationalCost{Amount: decimal.NewFromInt(1)})
	assert.NotEmpty(t, m.ID)

	p := ProjectModelFromDomain(&ledger.Project{Code: "X"})
	assert.NotEmpty(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestValuationModel_KeepsNilRate(t *testing.T) {
	v := &ledger.Valuation{ID: "v-1", Name: "V1", GrandTotal: decimal.NewFromInt(100)}
	m := ValuationModelFromDomain("p-1", v)
	assert.Equal(t, "p-1", m.ProjectID)
	assert.Nil(t, m.VATRate)
	assert.Nil(t, m.ToDomain().VATRate)
}

func TestWebhookSettingModel_RoundTrip(t *testing.T) {
	cfg := export.WebhookConfig{EndpointURL: "https://sheets.example.com/hook", Enabled: true}
	m := WebhookSettingFromConfig(cfg)
	assert.Equal(t, WebhookSettingsKey, m.Name)
	assert.Equal(t, cfg, m.ToConfig())
}
