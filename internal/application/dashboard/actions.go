package dashboard

import "github.com/oakline/ledger/internal/domain/ledger"

// Action is a named state mutation. The set of actions is closed; every
// implementation lives in this file.
type Action interface {
	// Name returns the action name used in logs and metrics
	Name() string
	isAction()
}

// SetState replaces the whole state (snapshot import)
type SetState struct {
	State ledger.DashboardState
}

// LoadState replaces the whole state with freshly fetched data
type LoadState struct {
	State ledger.DashboardState
}

// AddProject appends a project
type AddProject struct {
	Project ledger.Project
}

// UpdateProject replaces a project's own fields, keeping its current
// valuations, payments and supplier costs
type UpdateProject struct {
	Project ledger.Project
}

// DeleteProject removes a project and everything it owns
type DeleteProject struct {
	ID string
}

// AddValuation appends a valuation to a project
type AddValuation struct {
	ProjectID string
	Valuation ledger.Valuation
}

// UpdateValuation replaces a valuation on a project
type UpdateValuation struct {
	ProjectID string
	Valuation ledger.Valuation
}

// DeleteValuation removes a valuation from a project
type DeleteValuation struct {
	ProjectID string
	ID        string
}

// AddPayment appends a payment to a project
type AddPayment struct {
	ProjectID string
	Payment   ledger.Payment
}

// UpdatePayment replaces a payment on a project
type UpdatePayment struct {
	ProjectID string
	Payment   ledger.Payment
}

// DeletePayment removes a payment from a project
type DeletePayment struct {
	ProjectID string
	ID        string
}

// AddSupplierCost appends a supplier cost to a project
type AddSupplierCost struct {
	ProjectID string
	Cost      ledger.SupplierCost
}

// UpdateSupplierCost replaces a supplier cost on a project
type UpdateSupplierCost struct {
	ProjectID string
	Cost      ledger.SupplierCost
}

// DeleteSupplierCost removes a supplier cost from a project
type DeleteSupplierCost struct {
	ProjectID string
	ID        string
}

// AddOperationalCost appends an operational cost
type AddOperationalCost struct {
	Cost ledger.OperationalCost
}

// UpdateOperationalCost replaces an operational cost
type UpdateOperationalCost struct {
	Cost ledger.OperationalCost
}

// DeleteOperationalCost removes an operational cost
type DeleteOperationalCost struct {
	ID string
}

func (SetState) Name() string              { return "SET_STATE" }
func (LoadState) Name() string             { return "LOAD_STATE" }
func (AddProject) Name() string            { return "ADD_PROJECT" }
func (UpdateProject) Name() string         { return "UPDATE_PROJECT" }
func (DeleteProject) Name() string         { return "DELETE_PROJECT" }
func (AddValuation) Name() string          { return "ADD_VALUATION" }
func (UpdateValuation) Name() string       { return "UPDATE_VALUATION" }
func (DeleteValuation) Name() string       { return "DELETE_VALUATION" }
func (AddPayment) Name() string            { return "ADD_PAYMENT" }
func (UpdatePayment) Name() string         { return "UPDATE_PAYMENT" }
func (DeletePayment) Name() string         { return "DELETE_PAYMENT" }
func (AddSupplierCost) Name() string       { return "ADD_SUPPLIER_COST" }
func (UpdateSupplierCost) Name() string    { return "UPDATE_SUPPLIER_COST" }
func (DeleteSupplierCost) Name() string    { return "DELETE_SUPPLIER_COST" }
func (AddOperationalCost) Name() string    { return "ADD_OPERATIONAL_COST" }
func (UpdateOperationalCost) Name() string { return "UPDATE_OPERATIONAL_COST" }
func (DeleteOperationalCost) Name() string { return "DELETE_OPERATIONAL_COST" }

func (SetState) isAction()              {}
func (LoadState) isAction()             {}
func (AddProject) isAction()            {}
func (UpdateProject) isAction()         {}
func (DeleteProject) isAction()         {}
func (AddValuation) isAction()          {}
func (UpdateValuation) isAction()       {}
func (DeleteValuation) isAction()       {}
func (AddPayment) isAction()            {}
func (UpdatePayment) isAction()         {}
func (DeletePayment) isAction()         {}
func (AddSupplierCost) isAction()       {}
func (UpdateSupplierCost) isAction()    {}
func (DeleteSupplierCost) isAction()    {}
func (AddOperationalCost) isAction()    {}
func (UpdateOperationalCost) isAction() {}
func (DeleteOperationalCost) isAction() {}
