package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oakline/ledger/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Seq int
}

func newTestEvent(eventType string, seq int) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Dashboard"), Seq: seq}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestLocalEventBus_PublishInOrder(t *testing.T) {
	bus := NewLocalEventBus(zap.NewNop())
	handler := newTestHandler("dashboard.StateChanged")
	bus.Subscribe(handler)

	first := newTestEvent("dashboard.StateChanged", 1)
	second := newTestEvent("dashboard.StateChanged", 2)
	require.NoError(t, bus.Publish(context.Background(), first, second))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("other", 3)))

	assert.Equal(t, []shared.DomainEvent{first, second}, handler.getHandled())
	delivered, failed := bus.Stats()
	assert.Equal(t, int64(2), delivered)
	assert.Zero(t, failed)
}

func TestLocalEventBus_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewLocalEventBus(zap.NewNop())
	handler := newTestHandler("dashboard.StateChanged")
	bus.Subscribe(handler, "other")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("dashboard.StateChanged", 1)))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("other", 2)))

	require.Len(t, handler.getHandled(), 1)
	assert.Equal(t, "other", handler.getHandled()[0].EventType())
}

func TestLocalEventBus_FailingHandlerDoesNotBlockOthers(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewLocalEventBus(zap.New(core))

	failing := newTestHandler("dashboard.StateChanged")
	failing.err = errors.New("boom")
	panicking := newTestHandler("dashboard.StateChanged")
	panicking.panicWith = "kaboom"
	healthy := newTestHandler("dashboard.StateChanged")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("dashboard.StateChanged", 1))
	require.NoError(t, err)

	assert.Len(t, healthy.getHandled(), 1)
	delivered, failed := bus.Stats()
	assert.Equal(t, int64(1), delivered)
	assert.Equal(t, int64(2), failed)

	entries := logs.FilterMessage("handler failed to process event").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].ContextMap()["error"], "kaboom")
}

func TestLocalEventBus_Unsubscribe(t *testing.T) {
	bus := NewLocalEventBus(nil)
	handler := newTestHandler("dashboard.StateChanged")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("dashboard.StateChanged", 1)))
	assert.Empty(t, handler.getHandled())
}

func TestLocalEventBus_StopRejectsPublish(t *testing.T) {
	ctx := context.Background()
	bus := NewLocalEventBus(zap.NewNop())
	handler := newTestHandler("dashboard.StateChanged")
	bus.Subscribe(handler)

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))

	err := bus.Publish(ctx, newTestEvent("dashboard.StateChanged", 1))
	assert.ErrorIs(t, err, ErrBusStopped)
	assert.Empty(t, handler.getHandled())

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("dashboard.StateChanged", 2)))
	assert.Len(t, handler.getHandled(), 1)
}
