package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oakline/ledger/internal/application/dashboard"
	"github.com/oakline/ledger/internal/domain/ledger"
	"github.com/oakline/ledger/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	DefaultDelay          = 5 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// Transport delivers a payload to the export endpoint. It returns the HTTP
// status code when a response was received.
type Transport interface {
	Send(ctx context.Context, endpointURL string, payload any) (int, error)
}

// Recorder records export metrics
type Recorder interface {
	RecordSchedule()
	RecordTransmission(success bool, at time.Time)
}

type noopRecorder struct{}

func (noopRecorder) RecordSchedule()                   {}
func (noopRecorder) RecordTransmission(bool, time.Time) {}

// Status describes the most recent export activity
type Status struct {
	Enabled        bool       `json:"enabled"`
	EndpointURL    string     `json:"endpointUrl"`
	Pending        bool       `json:"pending"`
	LastAttemptAt  *time.Time `json:"lastAttemptAt,omitempty"`
	LastSuccessAt  *time.Time `json:"lastSuccessAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	LastStatusCode int        `json:"lastStatusCode,omitempty"`
	Transmissions  int        `json:"transmissions"`
	Failures       int        `json:"failures"`
}

// SynchronizerConfig holds the optional collaborators of a Synchronizer
type SynchronizerConfig struct {
	Delay          time.Duration
	RequestTimeout time.Duration
	Clock          Clock
	Storage        ConfigStorage
	Metrics        Recorder
}

// Synchronizer watches store snapshots and sends the latest one to the
// export endpoint once no further change has arrived for Delay. Unchanged
// snapshots are never rescheduled and failed sends are never retried.
type Synchronizer struct {
	transport      Transport
	storage        ConfigStorage
	clock          Clock
	metrics        Recorder
	logger         *zap.Logger
	delay          time.Duration
	requestTimeout time.Duration

	mu             sync.Mutex
	cfg            WebhookConfig
	pending        Timer
	generation     uint64
	lastSerialized string
	latest         ledger.DashboardState
	status         Status
	closed         bool
}

// NewSynchronizer creates a new Synchronizer for the given endpoint
func NewSynchronizer(cfg WebhookConfig, transport Transport, logger *zap.Logger, opts SynchronizerConfig) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = noopRecorder{}
	}

	return &Synchronizer{
		transport:      transport,
		storage:        opts.Storage,
		clock:          opts.Clock,
		metrics:        opts.Metrics,
		logger:         logger,
		delay:          opts.Delay,
		requestTimeout: opts.RequestTimeout,
		cfg:            cfg,
		latest:         ledger.EmptyState(),
	}
}

// Handle implements shared.EventHandler
func (s *Synchronizer) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*dashboard.StateChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	s.Observe(changed.Snapshot)
	return nil
}

// EventTypes implements shared.EventHandler
func (s *Synchronizer) EventTypes() []string {
	return []string{dashboard.EventTypeStateChanged}
}

// Observe schedules an export of snap unless the store is loading, export
// is inactive, or the snapshot matches the last scheduled one.
func (s *Synchronizer) Observe(snap dashboard.Snapshot) {
	if snap.Loading {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.cfg.Active() {
		return
	}

	serialized, err := serialize(snap.State)
	if err != nil {
		s.logger.Error("failed to serialize snapshot", zap.Error(err))
		return
	}
	if serialized == s.lastSerialized {
		return
	}

	s.lastSerialized = serialized
	s.latest = snap.State
	s.scheduleLocked()
}

// scheduleLocked replaces any pending timer with a new one
func (s *Synchronizer) scheduleLocked() {
	s.cancelPendingLocked()

	gen := s.generation
	s.pending = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
	s.status.Pending = true
	s.metrics.RecordSchedule()
}

// cancelPendingLocked also bumps the generation so a callback already
// waiting on s.mu finds itself stale.
func (s *Synchronizer) cancelPendingLocked() {
	s.generation++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.status.Pending = false
}

func (s *Synchronizer) fire(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.status.Pending = false
	cfg := s.cfg
	state := s.latest
	s.mu.Unlock()

	if !cfg.Active() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.requestTimeout)
	defer cancel()
	_ = s.transmit(ctx, cfg, state)
}

// SyncNow sends state immediately, dropping any pending timer
func (s *Synchronizer) SyncNow(ctx context.Context, state ledger.DashboardState) error {
	s.mu.Lock()
	cfg := s.cfg
	if strings.TrimSpace(cfg.EndpointURL) == "" {
		s.mu.Unlock()
		return ErrExportNotConfigured
	}
	s.cancelPendingLocked()
	if serialized, err := serialize(state); err == nil {
		s.lastSerialized = serialized
	}
	s.latest = state
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	return s.transmit(ctx, cfg, state)
}

func (s *Synchronizer) transmit(ctx context.Context, cfg WebhookConfig, state ledger.DashboardState) error {
	started := s.clock.Now()
	payload := BuildSyncPayload(state, started)

	code, err := s.transport.Send(ctx, cfg.EndpointURL, payload)
	s.record(started, code, err)

	if err != nil {
		s.logger.Error("export transmission failed",
			zap.String("endpoint", cfg.EndpointURL),
			zap.Int("status_code", code),
			zap.Error(err),
		)
		return fmt.Errorf("export snapshot: %w", err)
	}

	s.logger.Info("export transmitted",
		zap.String("endpoint", cfg.EndpointURL),
		zap.Int("status_code", code),
		zap.Int("projects", len(payload.Projects)),
		zap.Int("payments", len(payload.Payments)),
		zap.Int("supplier_costs", len(payload.SupplierCosts)),
		zap.Int("operational_costs", len(payload.OperationalCosts)),
	)
	return nil
}

func (s *Synchronizer) record(at time.Time, code int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := at
	s.status.LastAttemptAt = &attempt
	s.status.LastStatusCode = code
	s.status.Transmissions++
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
	} else {
		s.status.LastError = ""
		s.status.LastSuccessAt = &attempt
	}
	s.metrics.RecordTransmission(err == nil, at)
}

// TestConnection sends the test payload to the configured endpoint
func (s *Synchronizer) TestConnection(ctx context.Context) error {
	cfg := s.Config()
	if strings.TrimSpace(cfg.EndpointURL) == "" {
		return ErrExportNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	code, err := s.transport.Send(ctx, cfg.EndpointURL, BuildTestPayload(s.clock.Now()))
	if err != nil {
		s.logger.Warn("export endpoint test failed",
			zap.String("endpoint", cfg.EndpointURL),
			zap.Int("status_code", code),
			zap.Error(err),
		)
		return fmt.Errorf("test export endpoint: %w", err)
	}
	return nil
}

// UpdateConfig validates and stores a new configuration. Disabling export
// drops any pending timer.
func (s *Synchronizer) UpdateConfig(ctx context.Context, cfg WebhookConfig) error {
	cfg.EndpointURL = strings.TrimSpace(cfg.EndpointURL)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if s.storage != nil {
		if err := s.storage.Save(ctx, cfg); err != nil {
			return fmt.Errorf("save export config: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.lastSerialized = ""
	if !cfg.Active() {
		s.cancelPendingLocked()
	}

	s.logger.Info("export config updated",
		zap.String("endpoint", cfg.EndpointURL),
		zap.Bool("enabled", cfg.Enabled),
	)
	return nil
}

// Config returns the current configuration
func (s *Synchronizer) Config() WebhookConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Status returns the current export status
func (s *Synchronizer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Enabled = s.cfg.Enabled
	st.EndpointURL = s.cfg.EndpointURL
	return st
}

// Close drops the pending timer without sending. Later snapshots are ignored.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelPendingLocked()
}

func serialize(state ledger.DashboardState) (string, error) {
	data, err := json.Marshal(state.Normalize())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var _ shared.EventHandler = (*Synchronizer)(nil)
