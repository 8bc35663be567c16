package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates project and operational figures across the
// whole ledger.
type DashboardSummary struct {
	ProjectCount          int             `json:"projectCount"`
	ActiveProjects        int             `json:"activeProjects"`
	CompletedProjects     int             `json:"completedProjects"`
	OnHoldProjects        int             `json:"onHoldProjects"`
	TotalGross            decimal.Decimal `json:"totalGross"`
	TotalInflows          decimal.Decimal `json:"totalInflows"`
	PaymentVAT            decimal.Decimal `json:"paymentVat"`
	TotalInflowsIncVAT    decimal.Decimal `json:"totalInflowsIncVat"`
	TotalSupplierCosts    decimal.Decimal `json:"totalSupplierCosts"`
	GrossProfit           decimal.Decimal `json:"grossProfit"`
	TotalOperationalCosts decimal.Decimal `json:"totalOperationalCosts"`
	FixedCosts            decimal.Decimal `json:"fixedCosts"`
	VariableCosts         decimal.Decimal `json:"variableCosts"`
	NetProfit             decimal.Decimal `json:"netProfit"`
	NetMargin             decimal.Decimal `json:"netMargin"`
	TotalOutstanding      decimal.Decimal `json:"totalOutstanding"`
	CollectionRate        decimal.Decimal `json:"collectionRate"`
}

// CalculateDashboardSummary aggregates every project and operational cost
func CalculateDashboardSummary(s DashboardState) DashboardSummary {
	sum := DashboardSummary{ProjectCount: len(s.Projects)}

	for _, p := range s.Projects {
		switch p.Status {
		case ProjectStatusActive:
			sum.ActiveProjects++
		case ProjectStatusCompleted:
			sum.CompletedProjects++
		case ProjectStatusOnHold:
			sum.OnHoldProjects++
		}

		f := CalculateProjectFinancials(p)
		sum.TotalGross = sum.TotalGross.Add(f.TotalGross)
		sum.TotalInflows = sum.TotalInflows.Add(f.TotalInflows)
		sum.PaymentVAT = sum.PaymentVAT.Add(f.PaymentVAT)
		sum.TotalSupplierCosts = sum.TotalSupplierCosts.Add(f.TotalSupplierCosts)
		sum.TotalOutstanding = sum.TotalOutstanding.Add(f.Outstanding)
	}
	sum.TotalInflowsIncVAT = sum.TotalInflows.Add(sum.PaymentVAT)
	sum.GrossProfit = sum.TotalInflows.Sub(sum.TotalSupplierCosts)

	for _, c := range s.OperationalCosts {
		sum.TotalOperationalCosts = sum.TotalOperationalCosts.Add(c.Amount)
		if c.CostType == CostTypeFixed {
			sum.FixedCosts = sum.FixedCosts.Add(c.Amount)
		} else {
			sum.VariableCosts = sum.VariableCosts.Add(c.Amount)
		}
	}

	sum.NetProfit = sum.GrossProfit.Sub(sum.TotalOperationalCosts)
	sum.NetMargin = percentOf(sum.NetProfit, sum.TotalInflows)
	sum.CollectionRate = percentOf(sum.TotalInflows, sum.TotalGross)

	return sum
}

// CategoryTotal is the total of one operational cost category
type CategoryTotal struct {
	Category string          `json:"category"`
	CostType CostType        `json:"costType"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthTotal is the operational spend of one calendar month
type MonthTotal struct {
	Month    string          `json:"month"`
	Fixed    decimal.Decimal `json:"fixed"`
	Variable decimal.Decimal `json:"variable"`
	Total    decimal.Decimal `json:"total"`
}

// OperationalCostSummary breaks operational costs down by category, type and month
type OperationalCostSummary struct {
	Total      decimal.Decimal `json:"total"`
	Fixed      decimal.Decimal `json:"fixed"`
	Variable   decimal.Decimal `json:"variable"`
	ByCategory []CategoryTotal `json:"byCategory"`
	ByMonth    []MonthTotal    `json:"byMonth"`
}

// SummarizeOperationalCosts groups costs by category (first appearance order)
// and by month (ascending YYYY-MM).
func SummarizeOperationalCosts(costs []OperationalCost) OperationalCostSummary {
	out := OperationalCostSummary{
		ByCategory: []CategoryTotal{},
		ByMonth:    []MonthTotal{},
	}
	categoryIdx := make(map[string]int)
	months := make(map[string]*MonthTotal)

	for _, c := range costs {
		out.Total = out.Total.Add(c.Amount)

		key := c.Category + "\x00" + string(c.CostType)
		i, ok := categoryIdx[key]
		if !ok {
			i = len(out.ByCategory)
			categoryIdx[key] = i
			out.ByCategory = append(out.ByCategory, CategoryTotal{Category: c.Category, CostType: c.CostType})
		}
		out.ByCategory[i].Total = out.ByCategory[i].Total.Add(c.Amount)
		out.ByCategory[i].Count++

		month := c.Date.Format("2006-01")
		m, ok := months[month]
		if !ok {
			m = &MonthTotal{Month: month}
			months[month] = m
		}
		m.Total = m.Total.Add(c.Amount)
		if c.CostType == CostTypeFixed {
			out.Fixed = out.Fixed.Add(c.Amount)
			m.Fixed = m.Fixed.Add(c.Amount)
		} else {
			out.Variable = out.Variable.Add(c.Amount)
			m.Variable = m.Variable.Add(c.Amount)
		}
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		out.ByMonth = append(out.ByMonth, *months[k])
	}
	return out
}
