package handler

import (
	"time"

	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format of every ledger date
const dateLayout = "2006-01-02"

// parseDate reads a date already checked by the datetime binding
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Code           string `json:"code" binding:"required,min=1,max=50"`
	ClientName     string `json:"clientName" binding:"required,min=1,max=200"`
	Address        string `json:"address" binding:"max=500"`
	HasCashPayment bool   `json:"hasCashPayment"`
	Notes          string `json:"notes"`
}

func (r CreateProjectRequest) toInput() dashboard.CreateProjectInput {
	return dashboard.CreateProjectInput{
		Code:           r.Code,
		ClientName:     r.ClientName,
		Address:        r.Address,
		HasCashPayment: r.HasCashPayment,
		Notes:          r.Notes,
	}
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Code           *string `json:"code" binding:"omitempty,min=1,max=50"`
	ClientName     *string `json:"clientName" binding:"omitempty,min=1,max=200"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	Status         *string `json:"status" binding:"omitempty,oneof=active completed on_hold"`
	HasCashPayment *bool   `json:"hasCashPayment"`
	Notes          *string `json:"notes"`
}

func (r UpdateProjectRequest) toInput() dashboard.UpdateProjectInput {
	in := dashboard.UpdateProjectInput{
		Code:           r.Code,
		ClientName:     r.ClientName,
		Address:        r.Address,
		HasCashPayment: r.HasCashPayment,
		Notes:          r.Notes,
	}
	if r.Status != nil {
		status := ledger.ProjectStatus(*r.Status)
		in.Status = &status
	}
	return in
}

// ValuationRequest represents a valuation body
type ValuationRequest struct {
	Date       string           `json:"date" binding:"required,datetime=2006-01-02"`
	GrandTotal decimal.Decimal  `json:"grandTotal" binding:"gte=0"`
	Omissions  decimal.Decimal  `json:"omissions" binding:"gte=0"`
	VATRate    *decimal.Decimal `json:"vatRate" binding:"omitempty,gte=0,lte=1"`
	Notes      string           `json:"notes"`
}

func (r ValuationRequest) toInput() dashboard.ValuationInput {
	return dashboard.ValuationInput{
		Date:       parseDate(r.Date),
		GrandTotal: r.GrandTotal,
		Omissions:  r.Omissions,
		VATRate:    r.VATRate,
		Notes:      r.Notes,
	}
}

// PaymentRequest represents a client payment body
type PaymentRequest struct {
	Date          string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
	VATRate       decimal.Decimal `json:"vatRate" binding:"gte=0,lte=1"`
	Type          string          `json:"type" binding:"required,oneof=account cash"`
	ValuationName string          `json:"valuationName" binding:"max=20"`
	Description   string          `json:"description"`
}

func (r PaymentRequest) toInput() dashboard.PaymentInput {
	return dashboard.PaymentInput{
		Date:          parseDate(r.Date),
		Amount:        r.Amount,
		VATRate:       r.VATRate,
		Type:          ledger.PaymentType(r.Type),
		ValuationName: r.ValuationName,
		Description:   r.Description,
	}
}

// SupplierCostRequest represents a supplier cost body
type SupplierCostRequest struct {
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Supplier    string          `json:"supplier" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
}

func (r SupplierCostRequest) toInput() dashboard.SupplierCostInput {
	return dashboard.SupplierCostInput{
		Date:        parseDate(r.Date),
		Amount:      r.Amount,
		Supplier:    r.Supplier,
		Description: r.Description,
	}
}

// OperationalCostRequest represents an operational cost body
type OperationalCostRequest struct {
	Date        string          `json:"date" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Category    string          `json:"category" binding:"required,min=1,max=100"`
	CostType    string          `json:"costType" binding:"required,oneof=fixed variable"`
	Description string          `json:"description"`
	IsRecurring bool            `json:"isRecurring"`
}

func (r OperationalCostRequest) toInput() dashboard.OperationalCostInput {
	return dashboard.OperationalCostInput{
		Date:        parseDate(r.Date),
		Amount:      r.Amount,
		Category:    r.Category,
		CostType:    ledger.CostType(r.CostType),
		Description: r.Description,
		IsRecurring: r.IsRecurring,
	}
}

// PaymentPlanPreviewRequest asks for the staged schedule of a contract value
type PaymentPlanPreviewRequest struct {
	TotalValue decimal.Decimal `json:"totalValue" binding:"gte=0"`
	Plan       string          `json:"plan" binding:"required,oneof=full_account account_cp"`
}

// WebhookConfigRequest replaces the export endpoint configuration
type WebhookConfigRequest struct {
	EndpointURL string `json:"endpointUrl" binding:"omitempty,max=2048"`
	Enabled     bool   `json:"enabled"`
}
