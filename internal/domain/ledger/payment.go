package ledger

import (
	"fmt"
	"time"

	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType distinguishes the account channel from the cash/fee channel
type PaymentType string

const (
	PaymentTypeAccount PaymentType = "account"
	PaymentTypeCash    PaymentType = "cash"
)

// IsValid checks if the type is a valid PaymentType
func (t PaymentType) IsValid() bool {
	return t == PaymentTypeAccount || t == PaymentTypeCash
}

// String returns the string representation of PaymentType
func (t PaymentType) String() string {
	return string(t)
}

// Payment is a client inflow against a project. Account amounts are ex-VAT
// and a zero VATRate means the line carries no VAT. Cash lines never carry VAT.
type Payment struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	VATRate       decimal.Decimal `json:"vatRate"`
	Type          PaymentType     `json:"type"`
	ValuationName string          `json:"valuationName,omitempty"`
	Description   string          `json:"description,omitempty"`
}

// GetID returns the payment ID
func (p Payment) GetID() string {
	return p.ID
}

// GetDate returns the payment date
func (p Payment) GetDate() time.Time {
	return p.Date
}

// VAT returns the VAT carried by this payment line
func (p Payment) VAT() decimal.Decimal {
	if p.Type == PaymentTypeCash || p.VATRate.IsZero() {
		return decimal.Zero
	}
	return p.Amount.Mul(p.VATRate)
}

// GrossAmount returns the VAT-inclusive amount of this payment line
func (p Payment) GrossAmount() decimal.Decimal {
	return p.Amount.Add(p.VAT())
}

// Normalized returns p with the VAT rate cleared on cash lines
func (p Payment) Normalized() Payment {
	if p.Type == PaymentTypeCash {
		p.VATRate = decimal.Zero
	}
	return p
}

// NewPayment creates a new payment. A rate given for a cash line is dropped.
func NewPayment(date time.Time, amount, vatRate decimal.Decimal, paymentType PaymentType, valuationName, description string) (*Payment, error) {
	p := Payment{
		ID:            shared.NewID(),
		Date:          date,
		Amount:        amount,
		VATRate:       vatRate,
		Type:          paymentType,
		ValuationName: valuationName,
		Description:   description,
	}.Normalized()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the payment's fields
func (p Payment) Validate() error {
	if !p.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if p.VATRate.IsNegative() || p.VATRate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be a fraction between 0 and 1")
	}
	if !p.Type.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TYPE", fmt.Sprintf("Unknown payment type %q", p.Type))
	}
	return nil
}
