package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CostType classifies an operational cost
type CostType string

const (
	CostTypeFixed    CostType = "fixed"
	CostTypeVariable CostType = "variable"
)

// IsValid checks if the type is a valid CostType
func (t CostType) IsValid() bool {
	return t == CostTypeFixed || t == CostTypeVariable
}

// String returns the string representation of CostType
func (t CostType) String() string {
	return string(t)
}

// OperationalCost is a business-wide expense not tied to any project.
// IsRecurring is informational; it never generates future entries.
type OperationalCost struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CostType    CostType        `json:"costType"`
	Description string          `json:"description,omitempty"`
	IsRecurring bool            `json:"isRecurring,omitempty"`
}

// GetID returns the operational cost ID
func (c OperationalCost) GetID() string {
	return c.ID
}

// GetDate returns the operational cost date
func (c OperationalCost) GetDate() time.Time {
	return c.Date
}

// NewOperationalCost creates a new operational cost
func NewOperationalCost(date time.Time, amount decimal.Decimal, category string, costType CostType, description string, isRecurring bool) (*OperationalCost, error) {
	c := &OperationalCost{
		ID:          shared.NewID(),
		Date:        date,
		Amount:      amount,
		Category:    strings.TrimSpace(category),
		CostType:    costType,
		Description: description,
		IsRecurring: isRecurring,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the operational cost's fields
func (c OperationalCost) Validate() error {
	if !c.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Operational cost amount must be positive")
	}
	if strings.TrimSpace(c.Category) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot be empty")
	}
	if !c.CostType.IsValid() {
		return shared.NewDomainError("INVALID_COST_TYPE", fmt.Sprintf("Unknown cost type %q", c.CostType))
	}
	return nil
}
