package ledger

import "context"

// Repository durably stores and retrieves ledger entities.
// Create and Update return the stored record as persisted remotely.
type Repository interface {
	// FetchAllData returns every project (with nested collections) and every
	// operational cost.
	FetchAllData(ctx context.Context) (*DashboardState, error)

	// FetchOperationalCosts returns every operational cost
	FetchOperationalCosts(ctx context.Context) ([]OperationalCost, error)

	// SeedOperationalCosts stores the given initial operational costs
	SeedOperationalCosts(ctx context.Context, costs []OperationalCost) error

	CreateProject(ctx context.Context, project *Project) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) (*Project, error)
	DeleteProject(ctx context.Context, id string) error

	CreateValuation(ctx context.Context, projectID string, valuation *Valuation) (*Valuation, error)
	UpdateValuation(ctx context.Context, projectID string, valuation *Valuation) (*Valuation, error)
	DeleteValuation(ctx context.Context, projectID, id string) error

	CreatePayment(ctx context.Context, projectID string, payment *Payment) (*Payment, error)
	UpdatePayment(ctx context.Context, projectID string, payment *Payment) (*Payment, error)
	DeletePayment(ctx context.Context, projectID, id string) error

	CreateSupplierCost(ctx context.Context, projectID string, cost *SupplierCost) (*SupplierCost, error)
	UpdateSupplierCost(ctx context.Context, projectID string, cost *SupplierCost) (*SupplierCost, error)
	DeleteSupplierCost(ctx context.Context, projectID, id string) error

	CreateOperationalCost(ctx context.Context, cost *OperationalCost) (*OperationalCost, error)
	UpdateOperationalCost(ctx context.Context, cost *OperationalCost) (*OperationalCost, error)
	DeleteOperationalCost(ctx context.Context, id string) error
}
