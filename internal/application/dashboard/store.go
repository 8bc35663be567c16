package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/oakline/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

// MutationRecorder records the outcome of store mutations
type MutationRecorder interface {
	RecordMutation(action string, success bool)
}

type noopRecorder struct{}

func (noopRecorder) RecordMutation(string, bool) {}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithSeeder overrides the generator used to seed empty operational costs
func WithSeeder(seed func() []ledger.OperationalCost) StoreOption {
	return func(s *Store) {
		s.seed = seed
	}
}

// WithMutationRecorder sets the metrics recorder
func WithMutationRecorder(r MutationRecorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.metrics = r
		}
	}
}

// Store owns the dashboard state. Actions are applied one at a time in
// dispatch order; every applied action is published as a StateChangedEvent
// before the next one is applied.
type Store struct {
	mu      sync.Mutex
	state   ledger.DashboardState
	loading bool

	repo      ledger.Repository
	publisher shared.EventPublisher
	seed      func() []ledger.OperationalCost
	metrics   MutationRecorder
	logger    *zap.Logger
}

// NewStore creates a new Store with an empty state
func NewStore(repo ledger.Repository, publisher shared.EventPublisher, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		state:     ledger.EmptyState(),
		repo:      repo,
		publisher: publisher,
		seed:      ledger.DefaultOperationalCosts,
		metrics:   noopRecorder{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state and loading flag
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state, Loading: s.loading}
}

// State returns the current state
func (s *Store) State() ledger.DashboardState {
	return s.Snapshot().State
}

// Dispatch applies an action to the state and publishes the result
func (s *Store) Dispatch(ctx context.Context, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, action)
	s.publishLocked(ctx, action.Name())
}

func (s *Store) setLoading(ctx context.Context, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading == loading {
		return
	}
	s.loading = loading
	s.publishLocked(ctx, "SET_LOADING")
}

// publishLocked must be called with s.mu held so observers see snapshots in
// the order they were produced.
func (s *Store) publishLocked(ctx context.Context, action string) {
	if s.publisher == nil {
		return
	}
	event := NewStateChangedEvent(action, Snapshot{State: s.state, Loading: s.loading})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish state change",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// Load fetches everything from the repository and replaces the state.
// When no operational costs exist yet they are seeded and re-fetched.
// On failure the error is logged and returned, and the state is unchanged.
func (s *Store) Load(ctx context.Context) error {
	s.setLoading(ctx, true)
	defer s.setLoading(ctx, false)

	data, err := s.repo.FetchAllData(ctx)
	if err == nil && data == nil {
		err = shared.ErrPersistenceFailed
	}
	if err != nil {
		s.logger.Error("failed to load dashboard data", zap.Error(err))
		s.metrics.RecordMutation(LoadState{}.Name(), false)
		return fmt.Errorf("load dashboard data: %w", err)
	}

	state := *data
	if len(state.OperationalCosts) == 0 {
		state.OperationalCosts = s.seedOperationalCosts(ctx)
	}

	s.Dispatch(ctx, LoadState{State: state})
	s.metrics.RecordMutation(LoadState{}.Name(), true)

	s.logger.Info("dashboard data loaded",
		zap.Int("projects", len(state.Projects)),
		zap.Int("operational_costs", len(state.OperationalCosts)),
	)
	return nil
}

func (s *Store) seedOperationalCosts(ctx context.Context) []ledger.OperationalCost {
	costs := s.seed()
	for i := range costs {
		if costs[i].ID == "" {
			costs[i].ID = shared.NewID()
		}
	}

	if err := s.repo.SeedOperationalCosts(ctx, costs); err != nil {
		s.logger.Error("failed to seed operational costs", zap.Error(err))
		return []ledger.OperationalCost{}
	}

	fetched, err := s.repo.FetchOperationalCosts(ctx)
	if err != nil {
		s.logger.Error("failed to fetch seeded operational costs", zap.Error(err))
		return []ledger.OperationalCost{}
	}
	s.logger.Info("seeded operational costs", zap.Int("count", len(fetched)))
	return fetched
}

// ImportSnapshot replaces the local state with an exported snapshot.
// Nothing is written to the repository.
func (s *Store) ImportSnapshot(ctx context.Context, data []byte) error {
	state, err := ParseSnapshot(data)
	if err != nil {
		s.logger.Warn("rejected snapshot import", zap.Error(err))
		s.metrics.RecordMutation(SetState{}.Name(), false)
		return err
	}
	s.Dispatch(ctx, SetState{State: state})
	s.metrics.RecordMutation(SetState{}.Name(), true)
	return nil
}

// persisted converts the outcome of a repository call into the error
// returned to the caller. A nil result without an error counts as a failure.
func (s *Store) persisted(action string, ok bool, err error, fields ...zap.Field) error {
	if err == nil && ok {
		return nil
	}
	if err == nil {
		err = shared.ErrPersistenceFailed
	}

	s.metrics.RecordMutation(action, false)
	s.logger.Error("persistence call failed",
		append(fields, zap.String("action", action), zap.Error(err))...,
	)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return fmt.Errorf("%s: %w", action, err)
	}
	return fmt.Errorf("%s: %w: %w", action, shared.ErrPersistenceFailed, err)
}

func (s *Store) commit(ctx context.Context, action Action) {
	s.Dispatch(ctx, action)
	s.metrics.RecordMutation(action.Name(), true)
}

func (s *Store) rejected(action string, err error) error {
	s.metrics.RecordMutation(action, false)
	return err
}

func (s *Store) project(id string) (ledger.Project, error) {
	p, ok := s.State().FindProject(id)
	if !ok {
		return ledger.Project{}, shared.NewDomainError("PROJECT_NOT_FOUND", fmt.Sprintf("Project %s not found", id))
	}
	return p, nil
}
