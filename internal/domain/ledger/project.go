package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/oakline/ledger/internal/domain/shared"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the status
func (s ProjectStatus) DisplayName() string {
	switch s {
	case ProjectStatusActive:
		return "Active"
	case ProjectStatusCompleted:
		return "Completed"
	case ProjectStatusOnHold:
		return "On Hold"
	default:
		return string(s)
	}
}

// Project is a furniture job for a single client. It exclusively owns its
// valuations, payments and supplier costs.
type Project struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	ClientName     string         `json:"clientName"`
	Address        string         `json:"address,omitempty"`
	Status         ProjectStatus  `json:"status"`
	HasCashPayment bool           `json:"hasCashPayment"`
	Valuations     []Valuation    `json:"valuations"`
	Payments       []Payment      `json:"payments"`
	SupplierCosts  []SupplierCost `json:"supplierCosts"`
	CreatedAt      time.Time      `json:"createdAt"`
	Notes          string         `json:"notes"`
}

// GetID returns the project ID
func (p Project) GetID() string {
	return p.ID
}

// NewProject creates a new active project with empty collections
func NewProject(code, clientName, address string, hasCashPayment bool) (*Project, error) {
	code = strings.TrimSpace(code)
	clientName = strings.TrimSpace(clientName)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT_CODE", "Project code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_PROJECT_CODE", "Project code cannot exceed 50 characters")
	}
	if clientName == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}

	return &Project{
		ID:             shared.NewID(),
		Code:           code,
		ClientName:     clientName,
		Address:        strings.TrimSpace(address),
		Status:         ProjectStatusActive,
		HasCashPayment: hasCashPayment,
		Valuations:     []Valuation{},
		Payments:       []Payment{},
		SupplierCosts:  []SupplierCost{},
		CreatedAt:      time.Now(),
	}, nil
}

// Validate checks the project's own fields (not its collections)
func (p Project) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return shared.NewDomainError("INVALID_PROJECT_CODE", "Project code cannot be empty")
	}
	if strings.TrimSpace(p.ClientName) == "" {
		return shared.NewDomainError("INVALID_CLIENT_NAME", "Client name cannot be empty")
	}
	if !p.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown project status %q", p.Status))
	}
	return nil
}

// NextValuationName returns the label for the next valuation on this project.
// Names are never renumbered, so deleting an earlier valuation can produce a
// duplicate label.
func (p Project) NextValuationName() string {
	return fmt.Sprintf("V%d", len(p.Valuations)+1)
}

// CheckPaymentType reports whether a payment of the given type may be
// recorded against this project.
func (p Project) CheckPaymentType(t PaymentType) error {
	if !t.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TYPE", fmt.Sprintf("Unknown payment type %q", t))
	}
	if t == PaymentTypeCash && !p.HasCashPayment {
		return shared.NewDomainError("INVALID_PAYMENT_TYPE", "Cash payments are not enabled for this project")
	}
	return nil
}

// FindValuation returns the valuation with the given ID
func (p Project) FindValuation(id string) (Valuation, bool) {
	for _, v := range p.Valuations {
		if v.ID == id {
			return v, true
		}
	}
	return Valuation{}, false
}

// FindPayment returns the payment with the given ID
func (p Project) FindPayment(id string) (Payment, bool) {
	for _, pay := range p.Payments {
		if pay.ID == id {
			return pay, true
		}
	}
	return Payment{}, false
}

// FindSupplierCost returns the supplier cost with the given ID
func (p Project) FindSupplierCost(id string) (SupplierCost, bool) {
	for _, c := range p.SupplierCosts {
		if c.ID == id {
			return c, true
		}
	}
	return SupplierCost{}, false
}

// WithCollectionsFrom returns a copy of p carrying the owned collections of
// other. Used when a remote update returns only the project's own fields.
func (p Project) WithCollectionsFrom(other Project) Project {
	p.Valuations = other.Valuations
	p.Payments = other.Payments
	p.SupplierCosts = other.SupplierCosts
	return p
}
