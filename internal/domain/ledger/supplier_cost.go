package ledger

import (
	"strings"
	"time"

	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierCost is a flat outflow against a project. It carries no VAT.
type SupplierCost struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Supplier    string          `json:"supplier"`
	Description string          `json:"description,omitempty"`
}

// GetID returns the supplier cost ID
func (c SupplierCost) GetID() string {
	return c.ID
}

// GetDate returns the supplier cost date
func (c SupplierCost) GetDate() time.Time {
	return c.Date
}

// NewSupplierCost creates a new supplier cost
func NewSupplierCost(date time.Time, amount decimal.Decimal, supplier, description string) (*SupplierCost, error) {
	c := &SupplierCost{
		ID:          shared.NewID(),
		Date:        date,
		Amount:      amount,
		Supplier:    strings.TrimSpace(supplier),
		Description: description,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the supplier cost's fields
func (c SupplierCost) Validate() error {
	if !c.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Supplier cost amount must be positive")
	}
	if strings.TrimSpace(c.Supplier) == "" {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	return nil
}
