package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDashboardSummary(t *testing.T) {
	active := testProject()
	active.Valuations = []Valuation{{ID: "v1", GrandTotal: dec("10000"), VATRate: ratePtr("0.2")}}
	active.Payments = []Payment{{ID: "pay1", Amount: dec("8000"), VATRate: dec("0.2"), Type: PaymentTypeAccount}}
	active.SupplierCosts = []SupplierCost{{ID: "s1", Amount: dec("2000"), Supplier: "Timberline"}}

	done := testProject()
	done.ID = "p2"
	done.Status = ProjectStatusCompleted
	done.Valuations = []Valuation{{ID: "v2", GrandTotal: dec("5000"), VATRate: ratePtr("0")}}
	done.Payments = []Payment{{ID: "pay2", Amount: dec("5000"), Type: PaymentTypeCash}}

	state := DashboardState{
		Projects: []Project{active, done},
		OperationalCosts: []OperationalCost{
			{ID: "o1", Amount: dec("3000"), Category: "Showroom Rent", CostType: CostTypeFixed},
			{ID: "o2", Amount: dec("1000"), Category: "Marketing", CostType: CostTypeVariable},
		},
	}

	s := CalculateDashboardSummary(state)

	assert.Equal(t, 2, s.ProjectCount)
	assert.Equal(t, 1, s.ActiveProjects)
	assert.Equal(t, 1, s.CompletedProjects)
	assert.Equal(t, 0, s.OnHoldProjects)
	assertDecimal(t, "17000", s.TotalGross)
	assertDecimal(t, "13000", s.TotalInflows)
	assertDecimal(t, "1600", s.PaymentVAT)
	assertDecimal(t, "14600", s.TotalInflowsIncVAT)
	assertDecimal(t, "2000", s.TotalSupplierCosts)
	assertDecimal(t, "11000", s.GrossProfit)
	assertDecimal(t, "4000", s.TotalOperationalCosts)
	assertDecimal(t, "3000", s.FixedCosts)
	assertDecimal(t, "1000", s.VariableCosts)
	assertDecimal(t, "7000", s.NetProfit)
	assert.InDelta(t, 53.846, s.NetMargin.InexactFloat64(), 0.001)
	assertDecimal(t, "4000", s.TotalOutstanding)
}

func TestCalculateDashboardSummary_Empty(t *testing.T) {
	s := CalculateDashboardSummary(EmptyState())

	assert.Equal(t, 0, s.ProjectCount)
	assertDecimal(t, "0", s.NetMargin)
	assertDecimal(t, "0", s.CollectionRate)
}

func TestSummarizeOperationalCosts(t *testing.T) {
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	costs := []OperationalCost{
		{ID: "1", Date: feb, Amount: dec("4500"), Category: "Showroom Rent", CostType: CostTypeFixed},
		{ID: "2", Date: jan, Amount: dec("4500"), Category: "Showroom Rent", CostType: CostTypeFixed},
		{ID: "3", Date: jan, Amount: dec("600"), Category: "Utilities", CostType: CostTypeVariable},
	}

	s := SummarizeOperationalCosts(costs)

	assertDecimal(t, "9600", s.Total)
	assertDecimal(t, "9000", s.Fixed)
	assertDecimal(t, "600", s.Variable)

	require.Len(t, s.ByCategory, 2)
	assert.Equal(t, "Showroom Rent", s.ByCategory[0].Category)
	assert.Equal(t, 2, s.ByCategory[0].Count)
	assertDecimal(t, "9000", s.ByCategory[0].Total)
	assert.Equal(t, "Utilities", s.ByCategory[1].Category)

	require.Len(t, s.ByMonth, 2)
	assert.Equal(t, "2025-01", s.ByMonth[0].Month)
	assertDecimal(t, "5100", s.ByMonth[0].Total)
	assertDecimal(t, "600", s.ByMonth[0].Variable)
	assert.Equal(t, "2025-02", s.ByMonth[1].Month)
	assertDecimal(t, "4500", s.ByMonth[1].Fixed)
}
