// Package messaging implements the store event bus for the Intern Portal Hub.
// It provides a synchronous, ordered fan-out so every open view observes a
// mutation before the mutating call returns.
package messaging

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SYNC EVENT BUS
// ══════════════════════════════════════════════════════════════════════════════

// SyncEventBus is the in-process implementation of shared.EventBus.
//
// Delivery contract: Publish calls every currently subscribed handler, in
// subscription order, on the publishing goroutine, before returning. The
// store engine relies on this so that "mutation happens-before all
// subscribers observe it" holds under true concurrency: the engine publishes
// while still holding its mutation lock.
//
// A panicking handler is recovered and logged; it never prevents the
// remaining handlers from running and never corrupts engine state.
type SyncEventBus struct {
	mu          sync.RWMutex
	subscribers []subscription
	nextToken   int
	closed      bool
	logger      *slog.Logger
	metrics     *BusMetrics
}

type subscription struct {
	token   int
	handler shared.EventHandler
}

// Config contains configuration for SyncEventBus.
type Config struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// EnableMetrics enables delivery counters.
	EnableMetrics bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{EnableMetrics: true}
}

// NewSyncEventBus creates a new synchronous event bus.
func NewSyncEventBus(config Config) *SyncEventBus {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	bus := &SyncEventBus{
		subscribers: make([]subscription, 0),
		logger:      config.Logger,
	}
	if config.EnableMetrics {
		bus.metrics = NewBusMetrics()
	}
	return bus
}

// Subscribe registers a handler for all store events and returns a function
// that removes the registration. Unsubscribing twice is a no-op.
func (b *SyncEventBus) Subscribe(handler shared.EventHandler) func() {
	if handler == nil {
		return func() {}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		b.logger.Warn("subscribe on closed event bus ignored")
		return func() {}
	}

	token := b.nextToken
	b.nextToken++
	b.subscribers = append(b.subscribers, subscription{token: token, handler: handler})
	b.logger.Debug("subscribed handler", "token", token, "subscribers", len(b.subscribers))

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(token) })
	}
}

func (b *SyncEventBus) unsubscribe(token int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub.token == token {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			b.logger.Debug("unsubscribed handler", "token", token, "subscribers", len(b.subscribers))
			return
		}
	}
}

// Publish delivers the event to every subscriber before returning.
// The event gets a fresh ID and timestamp if the publisher left them empty.
func (b *SyncEventBus) Publish(event shared.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		b.logger.Warn("publish on closed event bus dropped", "kind", event.Kind, "op", event.Op)
		return
	}
	// Copy the subscriber list so a handler that subscribes or unsubscribes
	// during fan-out cannot shift the ordering of this delivery round.
	handlers := make([]subscription, len(b.subscribers))
	copy(handlers, b.subscribers)
	b.mu.RUnlock()

	if b.metrics != nil {
		b.metrics.RecordPublish(event.Kind, event.Op)
	}

	for _, sub := range handlers {
		b.deliver(event, sub)
	}
}

// deliver runs one handler with panic isolation.
func (b *SyncEventBus) deliver(event shared.Event, sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.RecordPanic()
			}
			b.logger.Error("event handler panicked",
				"token", sub.token,
				"event_id", event.ID,
				"kind", event.Kind,
				"op", event.Op,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	start := time.Now()
	sub.handler(event)

	if b.metrics != nil {
		b.metrics.RecordDelivery(time.Since(start))
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *SyncEventBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close drops all subscribers. Publishes after Close are logged and dropped;
// the engine treats event delivery as best-effort during shutdown.
func (b *SyncEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.subscribers = nil
	b.logger.Info("event bus closed")
	return nil
}

// Metrics returns the current metrics (nil when disabled).
func (b *SyncEventBus) Metrics() *BusMetrics {
	return b.metrics
}

// Interface compliance check.
var _ shared.EventBus = (*SyncEventBus)(nil)

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

// BusMetrics tracks event bus delivery counters.
type BusMetrics struct {
	mu sync.RWMutex

	PublishedTotal  map[shared.EntityKind]int64
	PublishedByOp   map[shared.Operation]int64
	Deliveries      int64
	HandlerPanics   int64
	DeliveryTotalNS int64
}

// NewBusMetrics creates a new metrics tracker.
func NewBusMetrics() *BusMetrics {
	return &BusMetrics{
		PublishedTotal: make(map[shared.EntityKind]int64),
		PublishedByOp:  make(map[shared.Operation]int64),
	}
}

// RecordPublish records a published event.
func (m *BusMetrics) RecordPublish(kind shared.EntityKind, op shared.Operation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedTotal[kind]++
	m.PublishedByOp[op]++
}

// RecordDelivery records one handler execution.
func (m *BusMetrics) RecordDelivery(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deliveries++
	m.DeliveryTotalNS += d.Nanoseconds()
}

// RecordPanic records a recovered handler panic.
func (m *BusMetrics) RecordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HandlerPanics++
}

// Snapshot returns a point-in-time copy of the counters.
func (m *BusMetrics) Snapshot() BusMetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var published int64
	for _, v := range m.PublishedTotal {
		published += v
	}

	avg := time.Duration(0)
	if m.Deliveries > 0 {
		avg = time.Duration(m.DeliveryTotalNS / m.Deliveries)
	}

	return BusMetricsSnapshot{
		TotalPublished:      published,
		TotalDeliveries:     m.Deliveries,
		HandlerPanics:       m.HandlerPanics,
		AverageDeliveryTime: avg,
	}
}

// BusMetricsSnapshot is a point-in-time snapshot of bus metrics.
type BusMetricsSnapshot struct {
	TotalPublished      int64         `json:"total_published"`
	TotalDeliveries     int64         `json:"total_deliveries"`
	HandlerPanics       int64         `json:"handler_panics"`
	AverageDeliveryTime time.Duration `json:"average_delivery_time"`
}
