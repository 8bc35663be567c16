package dashboard

import (
	"github.com/oakline/ledger/internal/domain/ledger"
)

// Overview returns the current state with its aggregate summary
func (s *Store) Overview() Overview {
	snap := s.Snapshot()
	return Overview{
		State:   snap.State,
		Summary: ledger.CalculateDashboardSummary(snap.State),
		Loading: snap.Loading,
	}
}

// ListProjects returns every project with its derived figures
func (s *Store) ListProjects(key ledger.ProjectSortKey, order ledger.SortOrder) []ProjectView {
	projects := ledger.SortedProjects(s.State().Projects, key, order)
	views := make([]ProjectView, len(projects))
	for i, p := range projects {
		views[i] = ProjectView{Project: p, Financials: ledger.CalculateProjectFinancials(p)}
	}
	return views
}

// GetProject returns a project with its derived figures
func (s *Store) GetProject(id string) (*ProjectView, error) {
	p, err := s.project(id)
	if err != nil {
		return nil, err
	}
	return &ProjectView{Project: p, Financials: ledger.CalculateProjectFinancials(p)}, nil
}

// ProjectFinancials returns the derived figures of a project
func (s *Store) ProjectFinancials(id string) (*ledger.ProjectFinancials, error) {
	p, err := s.project(id)
	if err != nil {
		return nil, err
	}
	f := ledger.CalculateProjectFinancials(p)
	return &f, nil
}

// ListOperationalCosts returns operational costs ordered by date
func (s *Store) ListOperationalCosts(order ledger.SortOrder) []ledger.OperationalCost {
	return ledger.SortedOperationalCosts(s.State().OperationalCosts, order)
}

// OperationalCostSummary returns the operational cost analytics
func (s *Store) OperationalCostSummary() ledger.OperationalCostSummary {
	return ledger.SummarizeOperationalCosts(s.State().OperationalCosts)
}
