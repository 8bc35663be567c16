package dashboard

import (
	"encoding/json"
	"fmt"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/oakline/ledger/internal/domain/shared"
)

// snapshotDocument distinguishes a missing collection from an empty one
type snapshotDocument struct {
	Projects         *[]ledger.Project         `json:"projects"`
	OperationalCosts *[]ledger.OperationalCost `json:"operationalCosts"`
}

// ParseSnapshot decodes an exported DashboardState. Documents missing either
// the projects or the operationalCosts collection are rejected.
func ParseSnapshot(data []byte) (ledger.DashboardState, error) {
	var doc snapshotDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return ledger.DashboardState{}, fmt.Errorf("%w: %v", shared.ErrMalformedImport, err)
	}
	if doc.Projects == nil || doc.OperationalCosts == nil {
		return ledger.DashboardState{}, shared.ErrMalformedImport
	}

	state := ledger.DashboardState{
		Projects:         *doc.Projects,
		OperationalCosts: *doc.OperationalCosts,
	}
	return state.Normalize(), nil
}
