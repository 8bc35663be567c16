package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// seedLine describes one monthly operational cost line
type seedLine struct {
	category    string
	costType    CostType
	day         int
	amounts     []int64 // cycled by month index
	description string
	recurring   bool
	everyNth    int // only emitted when monthIndex%everyNth == 0
}

var seedLines = []seedLine{
	{category: "Showroom Rent", costType: CostTypeFixed, day: 1, amounts: []int64{4500}, description: "Monthly showroom lease", recurring: true},
	{category: "Warehouse Rent", costType: CostTypeFixed, day: 1, amounts: []int64{2800}, description: "Monthly warehouse lease", recurring: true},
	{category: "Employee Salaries", costType: CostTypeFixed, day: 28, amounts: []int64{18500}, description: "Monthly payroll", recurring: true},
	{category: "Business Insurance", costType: CostTypeFixed, day: 5, amounts: []int64{420}, description: "Public liability and contents cover", recurring: true},
	{category: "Utilities", costType: CostTypeVariable, day: 15, amounts: []int64{640, 610, 560, 480, 420, 390, 380, 395, 430, 520, 590, 650}, description: "Electricity, gas and water"},
	{category: "Vehicle & Fuel", costType: CostTypeVariable, day: 20, amounts: []int64{850, 920, 780, 1010}, description: "Delivery van running costs"},
	{category: "Marketing", costType: CostTypeVariable, day: 10, amounts: []int64{1500, 2200}, description: "Quarterly advertising campaign", everyNth: 3},
}

const (
	seedStartYear = 2024
	seedMonths    = 24
)

// DefaultOperationalCosts returns the fixed initial set of operational costs
// covering January 2024 through December 2025. The output is identical on
// every call; IDs are left empty for the store to assign.
func DefaultOperationalCosts() []OperationalCost {
	costs := make([]OperationalCost, 0, seedMonths*len(seedLines))
	for m := 0; m < seedMonths; m++ {
		month := time.Month(m%12 + 1)
		year := seedStartYear + m/12
		for _, line := range seedLines {
			if line.everyNth > 0 && m%line.everyNth != 0 {
				continue
			}
			idx := m
			if line.everyNth > 0 {
				idx = m / line.everyNth
			}
			costs = append(costs, OperationalCost{
				Date:        time.Date(year, month, line.day, 0, 0, 0, 0, time.UTC),
				Amount:      decimal.NewFromInt(line.amounts[idx%len(line.amounts)]),
				Category:    line.category,
				CostType:    line.costType,
				Description: line.description,
				IsRecurring: line.recurring,
			})
		}
	}
	return costs
}
