package messaging

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func newTestBus() *SyncEventBus {
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSyncEventBus(cfg)
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := newTestBus()

	var order []string
	bus.Subscribe(func(shared.Event) { order = append(order, "first") })
	bus.Subscribe(func(shared.Event) { order = append(order, "second") })
	bus.Subscribe(func(shared.Event) { order = append(order, "third") })

	bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated})

	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublishAssignsIDAndTimestamp(t *testing.T) {
	bus := newTestBus()

	var got shared.Event
	bus.Subscribe(func(e shared.Event) { got = e })

	bus.Publish(shared.Event{Kind: shared.KindCompany, Op: shared.OpCreated})

	assert.NotEmpty(t, got.ID)
	assert.False(t, got.OccurredAt.IsZero())
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := newTestBus()

	calls := 0
	unsubscribe := bus.Subscribe(func(shared.Event) { calls++ })

	bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated})
	unsubscribe()

	bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpUpdated})
	assert.Equal(t, 1, calls)

	// Unsubscribing again is a no-op.
	unsubscribe()
	assert.Equal(t, 0, bus.SubscriberCount())
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	bus := newTestBus()

	var after bool
	bus.Subscribe(func(shared.Event) { panic("boom") })
	bus.Subscribe(func(shared.Event) { after = true })

	require.NotPanics(t, func() {
		bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated})
	})

	assert.True(t, after, "handlers after the panicking one still run")
	assert.Equal(t, int64(1), bus.Metrics().Snapshot().HandlerPanics)
}

func TestNilHandlerIsIgnored(t *testing.T) {
	bus := newTestBus()

	unsubscribe := bus.Subscribe(nil)
	assert.Equal(t, 0, bus.SubscriberCount())
	unsubscribe()
}

func TestClosedBusDropsEverything(t *testing.T) {
	bus := newTestBus()

	calls := 0
	bus.Subscribe(func(shared.Event) { calls++ })

	require.NoError(t, bus.Close())
	bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated})
	assert.Equal(t, 0, calls)

	bus.Subscribe(func(shared.Event) { calls++ })
	assert.Equal(t, 0, bus.SubscriberCount())

	require.NoError(t, bus.Close())
}

func TestMetricsCounters(t *testing.T) {
	bus := newTestBus()
	bus.Subscribe(func(shared.Event) {})
	bus.Subscribe(func(shared.Event) {})

	bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated})
	bus.Publish(shared.Event{Kind: shared.KindCompany, Op: shared.OpUpdated})

	snap := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snap.TotalPublished)
	assert.Equal(t, int64(4), snap.TotalDeliveries)
	assert.Equal(t, int64(0), snap.HandlerPanics)
}

func TestMetricsDisabled(t *testing.T) {
	bus := NewSyncEventBus(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	bus.Subscribe(func(shared.Event) {})
	bus.Publish(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated})

	assert.Nil(t, bus.Metrics())
}
