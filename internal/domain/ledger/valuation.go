package ledger

import (
	"strings"
	"time"

	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultVATRate is applied to valuations that do not carry their own rate
var DefaultVATRate = decimal.NewFromFloat(0.20)

// Valuation is a contractual value statement on a project.
// GrandTotal is the ex-VAT headline value; Omissions is cancelled scope.
type Valuation struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Date       time.Time        `json:"date"`
	GrandTotal decimal.Decimal  `json:"grandTotal"`
	Omissions  decimal.Decimal  `json:"omissions"`
	VATRate    *decimal.Decimal `json:"vatRate,omitempty"`
	Notes      string           `json:"notes,omitempty"`
}

// GetID returns the valuation ID
func (v Valuation) GetID() string {
	return v.ID
}

// GetDate returns the valuation date
func (v Valuation) GetDate() time.Time {
	return v.Date
}

// EffectiveVATRate returns the valuation's VAT rate, or DefaultVATRate when unset
func (v Valuation) EffectiveVATRate() decimal.Decimal {
	if v.VATRate == nil {
		return DefaultVATRate
	}
	return *v.VATRate
}

// NewValuation creates a new valuation. A nil vatRate stores DefaultVATRate.
func NewValuation(name string, date time.Time, grandTotal, omissions decimal.Decimal, vatRate *decimal.Decimal, notes string) (*Valuation, error) {
	v := &Valuation{
		ID:         shared.NewID(),
		Name:       strings.TrimSpace(name),
		Date:       date,
		GrandTotal: grandTotal,
		Omissions:  omissions,
		Notes:      notes,
	}
	rate := DefaultVATRate
	if vatRate != nil {
		rate = *vatRate
	}
	v.VATRate = &rate

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks the valuation's amounts
func (v Valuation) Validate() error {
	if v.GrandTotal.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Grand total cannot be negative")
	}
	if v.Omissions.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Omissions cannot be negative")
	}
	if v.VATRate != nil && (v.VATRate.IsNegative() || v.VATRate.GreaterThan(decimal.NewFromInt(1))) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be a fraction between 0 and 1")
	}
	return nil
}
