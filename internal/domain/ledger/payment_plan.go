package ledger

import (
	"fmt"

	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentPlan selects how a contract value splits between the account and
// cash channels.
type PaymentPlan string

const (
	// PaymentPlanFullAccount routes everything through the account channel
	PaymentPlanFullAccount PaymentPlan = "full_account"
	// PaymentPlanAccountCP routes 60% through account and 40% through cash
	PaymentPlanAccountCP PaymentPlan = "account_cp"
)

// IsValid checks if the plan is a known PaymentPlan
func (p PaymentPlan) IsValid() bool {
	return p == PaymentPlanFullAccount || p == PaymentPlanAccountCP
}

// Shares returns the account and cash fractions of the plan
func (p PaymentPlan) Shares() (account, cash decimal.Decimal) {
	if p == PaymentPlanAccountCP {
		return decimal.RequireFromString("0.6"), decimal.RequireFromString("0.4")
	}
	return decimal.NewFromInt(1), decimal.Zero
}

// PaymentStage is a milestone in the staged payment schedule
type PaymentStage string

const (
	StageUpfront    PaymentStage = "upfront"
	StageProduction PaymentStage = "production"
	StageDelivery   PaymentStage = "delivery"
)

// Label returns the display label of the stage
func (s PaymentStage) Label() string {
	switch s {
	case StageUpfront:
		return "Upfront"
	case StageProduction:
		return "Production"
	case StageDelivery:
		return "Delivery"
	default:
		return string(s)
	}
}

var stageWeights = []struct {
	stage  PaymentStage
	weight decimal.Decimal
}{
	{StageUpfront, decimal.RequireFromString("0.20")},
	{StageProduction, decimal.RequireFromString("0.70")},
	{StageDelivery, decimal.RequireFromString("0.10")},
}

// StageAmount splits a stage amount across both channels
type StageAmount struct {
	Account decimal.Decimal `json:"account"`
	Cash    decimal.Decimal `json:"cash"`
	Total   decimal.Decimal `json:"total"`
}

// ExpectedPayments is the expected schedule for a contract value
type ExpectedPayments struct {
	Upfront      StageAmount     `json:"upfront"`
	Production   StageAmount     `json:"production"`
	Delivery     StageAmount     `json:"delivery"`
	AccountTotal decimal.Decimal `json:"accountTotal"`
	CashTotal    decimal.Decimal `json:"cashTotal"`
	Total        decimal.Decimal `json:"total"`
}

// StageBreakdown is one row of a project breakdown
type StageBreakdown struct {
	Stage   PaymentStage    `json:"stage"`
	Label   string          `json:"label"`
	Percent decimal.Decimal `json:"percent"`
	StageAmount
}

// ProjectBreakdown is a presentation-ready view of a payment plan
type ProjectBreakdown struct {
	Plan           PaymentPlan      `json:"plan"`
	TotalValue     decimal.Decimal  `json:"totalValue"`
	AccountTotal   decimal.Decimal  `json:"accountTotal"`
	CashTotal      decimal.Decimal  `json:"cashTotal"`
	AccountPercent decimal.Decimal  `json:"accountPercent"`
	CashPercent    decimal.Decimal  `json:"cashPercent"`
	Stages         []StageBreakdown `json:"stages"`
}

func invalidPlanError(plan PaymentPlan) error {
	return shared.NewDomainError("INVALID_PAYMENT_PLAN", fmt.Sprintf("Unknown payment plan %q", plan))
}

func stageAmounts(totalValue decimal.Decimal, plan PaymentPlan) (accountTotal, cashTotal decimal.Decimal, stages []StageBreakdown) {
	accountShare, cashShare := plan.Shares()
	accountTotal = totalValue.Mul(accountShare)
	cashTotal = totalValue.Mul(cashShare)

	stages = make([]StageBreakdown, 0, len(stageWeights))
	for _, sw := range stageWeights {
		account := accountTotal.Mul(sw.weight)
		cash := cashTotal.Mul(sw.weight)
		stages = append(stages, StageBreakdown{
			Stage:   sw.stage,
			Label:   sw.stage.Label(),
			Percent: sw.weight.Mul(hundred),
			StageAmount: StageAmount{
				Account: account,
				Cash:    cash,
				Total:   account.Add(cash),
			},
		})
	}
	return accountTotal, cashTotal, stages
}

// CalculateExpectedPayments splits totalValue into the upfront, production and
// delivery stages for the given plan.
func CalculateExpectedPayments(totalValue decimal.Decimal, plan PaymentPlan) (ExpectedPayments, error) {
	if !plan.IsValid() {
		return ExpectedPayments{}, invalidPlanError(plan)
	}

	accountTotal, cashTotal, stages := stageAmounts(totalValue, plan)
	return ExpectedPayments{
		Upfront:      stages[0].StageAmount,
		Production:   stages[1].StageAmount,
		Delivery:     stages[2].StageAmount,
		AccountTotal: accountTotal,
		CashTotal:    cashTotal,
		Total:        accountTotal.Add(cashTotal),
	}, nil
}

// CalculateProjectBreakdown returns the stage table for a payment plan
func CalculateProjectBreakdown(totalValue decimal.Decimal, plan PaymentPlan) (ProjectBreakdown, error) {
	if !plan.IsValid() {
		return ProjectBreakdown{}, invalidPlanError(plan)
	}

	accountShare, cashShare := plan.Shares()
	accountTotal, cashTotal, stages := stageAmounts(totalValue, plan)
	return ProjectBreakdown{
		Plan:           plan,
		TotalValue:     totalValue,
		AccountTotal:   accountTotal,
		CashTotal:      cashTotal,
		AccountPercent: accountShare.Mul(hundred),
		CashPercent:    cashShare.Mul(hundred),
		Stages:         stages,
	}, nil
}
