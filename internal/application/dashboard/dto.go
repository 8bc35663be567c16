package dashboard

import (
	"time"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateProjectInput holds the fields of a new project
type CreateProjectInput struct {
	Code           string
	ClientName     string
	Address        string
	HasCashPayment bool
	Notes          string
}

// UpdateProjectInput holds the editable fields of a project.
// Nil fields keep their current value.
type UpdateProjectInput struct {
	Code           *string
	ClientName     *string
	Address        *string
	Status         *ledger.ProjectStatus
	HasCashPayment *bool
	Notes          *string
}

// ValuationInput holds the fields of a valuation
type ValuationInput struct {
	Date       time.Time
	GrandTotal decimal.Decimal
	Omissions  decimal.Decimal
	VATRate    *decimal.Decimal
	Notes      string
}

// PaymentInput holds the fields of a payment
type PaymentInput struct {
	Date          time.Time
	Amount        decimal.Decimal
	VATRate       decimal.Decimal
	Type          ledger.PaymentType
	ValuationName string
	Description   string
}

// SupplierCostInput holds the fields of a supplier cost
type SupplierCostInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Supplier    string
	Description string
}

// OperationalCostInput holds the fields of an operational cost
type OperationalCostInput struct {
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	CostType    ledger.CostType
	Description string
	IsRecurring bool
}

// ProjectView is a project together with its derived figures
type ProjectView struct {
	ledger.Project
	Financials ledger.ProjectFinancials `json:"financials"`
}

// Overview is the dashboard read model
type Overview struct {
	State   ledger.DashboardState   `json:"state"`
	Summary ledger.DashboardSummary `json:"summary"`
	Loading bool                    `json:"loading"`
}
