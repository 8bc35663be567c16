// Package ledger holds the furniture ledger entities and the pure financial
// calculations derived from them.
package ledger

// DashboardState is the root aggregate of the ledger
type DashboardState struct {
	Projects         []Project         `json:"projects"`
	OperationalCosts []OperationalCost `json:"operationalCosts"`
}

// EmptyState returns a state with non-nil, empty collections
func EmptyState() DashboardState {
	return DashboardState{
		Projects:         []Project{},
		OperationalCosts: []OperationalCost{},
	}
}

// FindProject returns the project with the given ID
func (s DashboardState) FindProject(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// FindOperationalCost returns the operational cost with the given ID
func (s DashboardState) FindOperationalCost(id string) (OperationalCost, bool) {
	for _, c := range s.OperationalCosts {
		if c.ID == id {
			return c, true
		}
	}
	return OperationalCost{}, false
}

// Normalize replaces nil collections with empty ones so the serialized form
// of an empty state is stable.
func (s DashboardState) Normalize() DashboardState {
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.OperationalCosts == nil {
		s.OperationalCosts = []OperationalCost{}
	}
	projects := make([]Project, len(s.Projects))
	for i, p := range s.Projects {
		if p.Valuations == nil {
			p.Valuations = []Valuation{}
		}
		if p.Payments == nil {
			p.Payments = []Payment{}
		}
		if p.SupplierCosts == nil {
			p.SupplierCosts = []SupplierCost{}
		}
		projects[i] = p
	}
	s.Projects = projects
	return s
}

// Counts returns the number of records of each kind held by the state
func (s DashboardState) Counts() StateCounts {
	c := StateCounts{
		Projects:         len(s.Projects),
		OperationalCosts: len(s.OperationalCosts),
	}
	for _, p := range s.Projects {
		c.Valuations += len(p.Valuations)
		c.Payments += len(p.Payments)
		c.SupplierCosts += len(p.SupplierCosts)
	}
	return c
}

// StateCounts holds record counts across the state
type StateCounts struct {
	Projects         int `json:"projects"`
	Valuations       int `json:"valuations"`
	Payments         int `json:"payments"`
	SupplierCosts    int `json:"supplierCosts"`
	OperationalCosts int `json:"operationalCosts"`
}
