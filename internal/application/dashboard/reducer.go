package dashboard

import (
	"slices"

	"github.com/oakline/ledger/internal/domain/ledger"
)

// Reduce returns the state that results from applying action to s.
// It never modifies s: every changed level is copied and untouched levels
// are shared. Actions naming unknown IDs leave the state unchanged.
func Reduce(s ledger.DashboardState, action Action) ledger.DashboardState {
	switch a := action.(type) {
	case SetState:
		return a.State.Normalize()
	case LoadState:
		return a.State.Normalize()

	case AddProject:
		p := a.Project
		p.Valuations = nonNil(p.Valuations)
		p.Payments = nonNil(p.Payments)
		p.SupplierCosts = nonNil(p.SupplierCosts)
		s.Projects = appendCopy(s.Projects, p)
		return s
	case UpdateProject:
		s.Projects = replaceByID(s.Projects, a.Project.ID, func(cur ledger.Project) ledger.Project {
			return a.Project.WithCollectionsFrom(cur)
		})
		return s
	case DeleteProject:
		s.Projects = removeByID(s.Projects, a.ID)
		return s

	case AddValuation:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.Valuations = appendCopy(p.Valuations, a.Valuation)
			return p
		})
	case UpdateValuation:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.Valuations = replaceByID(p.Valuations, a.Valuation.ID, func(ledger.Valuation) ledger.Valuation { return a.Valuation })
			return p
		})
	case DeleteValuation:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.Valuations = removeByID(p.Valuations, a.ID)
			return p
		})

	case AddPayment:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.Payments = appendCopy(p.Payments, a.Payment)
			return p
		})
	case UpdatePayment:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.Payments = replaceByID(p.Payments, a.Payment.ID, func(ledger.Payment) ledger.Payment { return a.Payment })
			return p
		})
	case DeletePayment:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.Payments = removeByID(p.Payments, a.ID)
			return p
		})

	case AddSupplierCost:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.SupplierCosts = appendCopy(p.SupplierCosts, a.Cost)
			return p
		})
	case UpdateSupplierCost:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.SupplierCosts = replaceByID(p.SupplierCosts, a.Cost.ID, func(ledger.SupplierCost) ledger.SupplierCost { return a.Cost })
			return p
		})
	case DeleteSupplierCost:
		return updateProject(s, a.ProjectID, func(p ledger.Project) ledger.Project {
			p.SupplierCosts = removeByID(p.SupplierCosts, a.ID)
			return p
		})

	case AddOperationalCost:
		s.OperationalCosts = appendCopy(s.OperationalCosts, a.Cost)
		return s
	case UpdateOperationalCost:
		s.OperationalCosts = replaceByID(s.OperationalCosts, a.Cost.ID, func(ledger.OperationalCost) ledger.OperationalCost { return a.Cost })
		return s
	case DeleteOperationalCost:
		s.OperationalCosts = removeByID(s.OperationalCosts, a.ID)
		return s
	}
	return s
}

type identified interface {
	GetID() string
}

func updateProject(s ledger.DashboardState, id string, fn func(ledger.Project) ledger.Project) ledger.DashboardState {
	s.Projects = replaceByID(s.Projects, id, fn)
	return s
}

// appendCopy returns a new slice holding items followed by item
func appendCopy[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// replaceByID returns a copy of items with the element matching id replaced
// by fn(element). When nothing matches, items is returned as is.
func replaceByID[T identified](items []T, id string, fn func(T) T) []T {
	idx := slices.IndexFunc(items, func(it T) bool { return it.GetID() == id })
	if idx < 0 {
		return items
	}
	out := slices.Clone(items)
	out[idx] = fn(items[idx])
	return out
}

// removeByID returns a copy of items without the element matching id.
// When nothing matches, items is returned as is.
func removeByID[T identified](items []T, id string) []T {
	if !slices.ContainsFunc(items, func(it T) bool { return it.GetID() == id }) {
		return items
	}
	out := make([]T, 0, len(items)-1)
	for _, it := range items {
		if it.GetID() != id {
			out = append(out, it)
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
