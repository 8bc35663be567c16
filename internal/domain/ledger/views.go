package ledger

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// SortOrder controls the direction of a sorted view
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder parses a sort order, defaulting to descending (newest first)
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// dated is a ledger record that can be ordered by date
type dated interface {
	GetID() string
	GetDate() time.Time
}

// SortByDate returns a sorted copy of items. Ties break on ID.
// The input slice is never reordered.
func SortByDate[T dated](items []T, order SortOrder) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		c := a.GetDate().Compare(b.GetDate())
		if c == 0 {
			c = cmp.Compare(a.GetID(), b.GetID())
		}
		if order == SortDesc {
			return -c
		}
		return c
	})
	return out
}

// SortedValuations returns the project's valuations ordered by date
func SortedValuations(p Project, order SortOrder) []Valuation {
	return SortByDate(p.Valuations, order)
}

// SortedPayments returns the project's payments ordered by date
func SortedPayments(p Project, order SortOrder) []Payment {
	return SortByDate(p.Payments, order)
}

// SortedSupplierCosts returns the project's supplier costs ordered by date
func SortedSupplierCosts(p Project, order SortOrder) []SupplierCost {
	return SortByDate(p.SupplierCosts, order)
}

// SortedOperationalCosts returns the operational costs ordered by date
func SortedOperationalCosts(costs []OperationalCost, order SortOrder) []OperationalCost {
	return SortByDate(costs, order)
}

// ProjectSortKey selects the field used to order projects
type ProjectSortKey string

const (
	ProjectSortCreatedAt ProjectSortKey = "created_at"
	ProjectSortCode      ProjectSortKey = "code"
)

// SortedProjects returns a sorted copy of projects
func SortedProjects(projects []Project, key ProjectSortKey, order SortOrder) []Project {
	out := slices.Clone(projects)
	if out == nil {
		out = []Project{}
	}
	slices.SortStableFunc(out, func(a, b Project) int {
		var c int
		switch key {
		case ProjectSortCode:
			c = cmp.Compare(a.Code, b.Code)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if order == SortDesc {
			return -c
		}
		return c
	})
	return out
}
