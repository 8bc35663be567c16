package dashboard

import (
	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/oakline/ledger/internal/domain/shared"
)

const (
	// EventTypeStateChanged is published after every applied action and
	// every change of the loading flag
	EventTypeStateChanged = "dashboard.StateChanged"

	eventSourceDashboard = "Dashboard"
)

// Snapshot is an immutable view of the store. The slices it holds are never
// written to after publication.
type Snapshot struct {
	State   ledger.DashboardState
	Loading bool
}

// StateChangedEvent carries the snapshot produced by a store change
type StateChangedEvent struct {
	shared.BaseDomainEvent
	Action   string
	Snapshot Snapshot
}

// NewStateChangedEvent creates a new StateChangedEvent
func NewStateChangedEvent(action string, snap Snapshot) *StateChangedEvent {
	return &StateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStateChanged, eventSourceDashboard),
		Action:          action,
		Snapshot:        snap,
	}
}
