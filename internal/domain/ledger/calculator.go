package ledger

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValuationTotals holds the derived figures of a single valuation
type ValuationTotals struct {
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Omissions  decimal.Decimal `json:"omissions"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	VATRate    decimal.Decimal `json:"vatRate"`
	VAT        decimal.Decimal `json:"vat"`
	Gross      decimal.Decimal `json:"gross"`
}

// CalculateValuationTotals derives subtotal, VAT and gross for a valuation.
// The cash flag is accepted for call-site symmetry with the project and
// does not alter any figure.
func CalculateValuationTotals(v Valuation, _ bool) ValuationTotals {

	rate := v.EffectiveVATRate()
	subtotal := v.GrandTotal.Sub(v.Omissions)
	vat := subtotal.Mul(rate)

	return ValuationTotals{
		GrandTotal: v.GrandTotal,
		Omissions:  v.Omissions,
		Subtotal:   subtotal,
		VATRate:    rate,
		VAT:        vat,
		Gross:      v.GrandTotal.Add(vat).Sub(v.Omissions),
	}
}

// ProjectFinancials holds the derived figures of a project.
// TotalInflows is ex-VAT; TotalInflowsIncVAT adds the per-line payment VAT.
type ProjectFinancials struct {
	TotalNet           decimal.Decimal `json:"totalNet"`
	TotalGross         decimal.Decimal `json:"totalGross"`
	TotalInflows       decimal.Decimal `json:"totalInflows"`
	PaymentVAT         decimal.Decimal `json:"paymentVat"`
	TotalInflowsIncVAT decimal.Decimal `json:"totalInflowsIncVat"`
	AccountPayments    decimal.Decimal `json:"accountPayments"`
	CashPayments       decimal.Decimal `json:"cashPayments"`
	TotalSupplierCosts decimal.Decimal `json:"totalSupplierCosts"`
	GrossProfit        decimal.Decimal `json:"grossProfit"`
	ProfitMargin       decimal.Decimal `json:"profitMargin"`
	CollectionRate     decimal.Decimal `json:"collectionRate"`
	Outstanding        decimal.Decimal `json:"outstanding"`
}

// FeePayments is the cash-channel total under its alternate name
func (f ProjectFinancials) FeePayments() decimal.Decimal {
	return f.CashPayments
}

// CollectionProgress returns the collection rate capped at 100 for progress
// displays. CollectionRate itself is never capped.
func (f ProjectFinancials) CollectionProgress() decimal.Decimal {
	if f.CollectionRate.GreaterThan(hundred) {
		return hundred
	}
	return f.CollectionRate
}

// IsLoss reports whether supplier costs exceed inflows
func (f ProjectFinancials) IsLoss() bool {
	return f.GrossProfit.IsNegative()
}

// CalculateProjectFinancials derives inflow, cost and profit figures for a project
func CalculateProjectFinancials(p Project) ProjectFinancials {
	var f ProjectFinancials

	for _, v := range p.Valuations {
		t := CalculateValuationTotals(v, p.HasCashPayment)
		f.TotalNet = f.TotalNet.Add(t.Subtotal)
		f.TotalGross = f.TotalGross.Add(t.Gross)
	}

	for _, pay := range p.Payments {
		f.TotalInflows = f.TotalInflows.Add(pay.Amount)
		f.PaymentVAT = f.PaymentVAT.Add(pay.VAT())
		switch pay.Type {
		case PaymentTypeAccount:
			f.AccountPayments = f.AccountPayments.Add(pay.Amount)
		case PaymentTypeCash:
			f.CashPayments = f.CashPayments.Add(pay.Amount)
		}
	}
	f.TotalInflowsIncVAT = f.TotalInflows.Add(f.PaymentVAT)

	for _, c := range p.SupplierCosts {
		f.TotalSupplierCosts = f.TotalSupplierCosts.Add(c.Amount)
	}

	f.GrossProfit = f.TotalInflows.Sub(f.TotalSupplierCosts)
	f.ProfitMargin = percentOf(f.GrossProfit, f.TotalInflows)
	f.CollectionRate = percentOf(f.TotalInflows, f.TotalGross)
	f.Outstanding = nonNegative(f.TotalGross.Sub(f.TotalInflows))

	return f
}

// percentOf returns part/whole*100, or zero when whole is zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
