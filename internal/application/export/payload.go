package export

import (
	"time"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

const (
	ActionSyncAll = "sync_all"
	ActionTest    = "test"

	dateLayout = "2006-01-02"
)

// SyncPayload is the document sent to the export endpoint
type SyncPayload struct {
	Action           string                  `json:"action"`
	Timestamp        string                  `json:"timestamp"`
	Summary          PayloadSummary          `json:"summary"`
	Projects         []ProjectRecord         `json:"projects"`
	Payments         []PaymentRecord         `json:"payments"`
	SupplierCosts    []SupplierCostRecord    `json:"supplierCosts"`
	OperationalCosts []OperationalCostRecord `json:"operationalCosts"`
}

// TestPayload is sent when checking the endpoint
type TestPayload struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// PayloadSummary carries headline totals
type PayloadSummary struct {
	TotalProjects         int     `json:"totalProjects"`
	ActiveProjects        int     `json:"activeProjects"`
	TotalPayments         int     `json:"totalPayments"`
	TotalSupplierCosts    int     `json:"totalSupplierCosts"`
	TotalOperationalCosts int     `json:"totalOperationalCosts"`
	TotalInflows          float64 `json:"totalInflows"`
	TotalInflowsIncVAT    float64 `json:"totalInflowsIncVat"`
	TotalCosts            float64 `json:"totalCosts"`
	GrossProfit           float64 `json:"grossProfit"`
	OperationalSpend      float64 `json:"operationalSpend"`
	NetProfit             float64 `json:"netProfit"`
	TotalOutstanding      float64 `json:"totalOutstanding"`
}

// ProjectRecord is a flattened project row
type ProjectRecord struct {
	ID                 string  `json:"id"`
	Code               string  `json:"code"`
	ClientName         string  `json:"clientName"`
	Address            string  `json:"address"`
	Status             string  `json:"status"`
	HasCashPayment     bool    `json:"hasCashPayment"`
	CreatedAt          string  `json:"createdAt"`
	Valuations         int     `json:"valuations"`
	TotalGross         float64 `json:"totalGross"`
	TotalInflows       float64 `json:"totalInflows"`
	TotalInflowsIncVAT float64 `json:"totalInflowsIncVat"`
	AccountPayments    float64 `json:"accountPayments"`
	CashPayments       float64 `json:"cashPayments"`
	TotalSupplierCosts float64 `json:"totalSupplierCosts"`
	GrossProfit        float64 `json:"grossProfit"`
	ProfitMargin       float64 `json:"profitMargin"`
	CollectionRate     float64 `json:"collectionRate"`
	Outstanding        float64 `json:"outstanding"`
	Notes              string  `json:"notes"`
	LastUpdated        string  `json:"lastUpdated"`
}

// PaymentRecord is a flattened payment row
type PaymentRecord struct {
	ID            string  `json:"id"`
	ProjectID     string  `json:"projectId"`
	ProjectCode   string  `json:"projectCode"`
	ClientName    string  `json:"clientName"`
	Date          string  `json:"date"`
	Amount        float64 `json:"amount"`
	VATRate       float64 `json:"vatRate"`
	VAT           float64 `json:"vat"`
	GrossAmount   float64 `json:"grossAmount"`
	Type          string  `json:"type"`
	ValuationName string  `json:"valuationName"`
	Description   string  `json:"description"`
	LastUpdated   string  `json:"lastUpdated"`
}

// SupplierCostRecord is a flattened supplier cost row
type SupplierCostRecord struct {
	ID          string  `json:"id"`
	ProjectID   string  `json:"projectId"`
	ProjectCode string  `json:"projectCode"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Supplier    string  `json:"supplier"`
	Description string  `json:"description"`
	LastUpdated string  `json:"lastUpdated"`
}

// OperationalCostRecord is a flattened operational cost row
type OperationalCostRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	CostType    string  `json:"costType"`
	Description string  `json:"description"`
	IsRecurring bool    `json:"isRecurring"`
	LastUpdated string  `json:"lastUpdated"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// BuildSyncPayload flattens the state into the export document.
// Records keep insertion order.
func BuildSyncPayload(state ledger.DashboardState, now time.Time) SyncPayload {
	stamp := now.UTC().Format(time.RFC3339)
	summary := ledger.CalculateDashboardSummary(state)
	counts := state.Counts()

	payload := SyncPayload{
		Action:    ActionSyncAll,
		Timestamp: stamp,
		Summary: PayloadSummary{
			TotalProjects:         counts.Projects,
			ActiveProjects:        summary.ActiveProjects,
			TotalPayments:         counts.Payments,
			TotalSupplierCosts:    counts.SupplierCosts,
			TotalOperationalCosts: counts.OperationalCosts,
			TotalInflows:          money(summary.TotalInflows),
			TotalInflowsIncVAT:    money(summary.TotalInflowsIncVAT),
			TotalCosts:            money(summary.TotalSupplierCosts),
			GrossProfit:           money(summary.GrossProfit),
			OperationalSpend:      money(summary.TotalOperationalCosts),
			NetProfit:             money(summary.NetProfit),
			TotalOutstanding:      money(summary.TotalOutstanding),
		},
		Projects:         make([]ProjectRecord, 0, counts.Projects),
		Payments:         make([]PaymentRecord, 0, counts.Payments),
		SupplierCosts:    make([]SupplierCostRecord, 0, counts.SupplierCosts),
		OperationalCosts: make([]OperationalCostRecord, 0, counts.OperationalCosts),
	}

	for _, p := range state.Projects {
		f := ledger.CalculateProjectFinancials(p)
		payload.Projects = append(payload.Projects, ProjectRecord{
			ID:                 p.ID,
			Code:               p.Code,
			ClientName:         p.ClientName,
			Address:            p.Address,
			Status:             p.Status.String(),
			HasCashPayment:     p.HasCashPayment,
			CreatedAt:          p.CreatedAt.UTC().Format(time.RFC3339),
			Valuations:         len(p.Valuations),
			TotalGross:         money(f.TotalGross),
			TotalInflows:       money(f.TotalInflows),
			TotalInflowsIncVAT: money(f.TotalInflowsIncVAT),
			AccountPayments:    money(f.AccountPayments),
			CashPayments:       money(f.CashPayments),
			TotalSupplierCosts: money(f.TotalSupplierCosts),
			GrossProfit:        money(f.GrossProfit),
			ProfitMargin:       money(f.ProfitMargin),
			CollectionRate:     money(f.CollectionRate),
			Outstanding:        money(f.Outstanding),
			Notes:              p.Notes,
			LastUpdated:        stamp,
		})

		for _, pay := range p.Payments {
			payload.Payments = append(payload.Payments, PaymentRecord{
				ID:            pay.ID,
				ProjectID:     p.ID,
				ProjectCode:   p.Code,
				ClientName:    p.ClientName,
				Date:          pay.Date.Format(dateLayout),
				Amount:        money(pay.Amount),
				VATRate:       pay.VATRate.InexactFloat64(),
				VAT:           money(pay.VAT()),
				GrossAmount:   money(pay.GrossAmount()),
				Type:          pay.Type.String(),
				ValuationName: pay.ValuationName,
				Description:   pay.Description,
				LastUpdated:   stamp,
			})
		}

		for _, c := range p.SupplierCosts {
			payload.SupplierCosts = append(payload.SupplierCosts, SupplierCostRecord{
				ID:          c.ID,
				ProjectID:   p.ID,
				ProjectCode: p.Code,
				Date:        c.Date.Format(dateLayout),
				Amount:      money(c.Amount),
				Supplier:    c.Supplier,
				Description: c.Description,
				LastUpdated: stamp,
			})
		}
	}

	for _, c := range state.OperationalCosts {
		payload.OperationalCosts = append(payload.OperationalCosts, OperationalCostRecord{
			ID:          c.ID,
			Date:        c.Date.Format(dateLayout),
			Amount:      money(c.Amount),
			Category:    c.Category,
			CostType:    c.CostType.String(),
			Description: c.Description,
			IsRecurring: c.IsRecurring,
			LastUpdated: stamp,
		})
	}

	return payload
}

// BuildTestPayload returns the connectivity check document
func BuildTestPayload(now time.Time) TestPayload {
	return TestPayload{
		Action:    ActionTest,
		Timestamp: now.UTC().Format(time.RFC3339),
		Message:   "Connection test from the furniture ledger",
	}
}
