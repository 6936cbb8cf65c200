// Package eventhandler contains the application-level subscribers that react
// to store events.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/internal/store"
)

// ═══════════════════════════════════════════════════════════════════════════
// AUDIT RECORDER
// Turns store mutation events into SystemLog audit entries.
//
// Store event handlers run inside the mutating call's critical section, so
// the recorder must not write back into the store from the handler itself.
// Handle only queues the event on a buffered channel; a background worker
// drains the channel and calls CreateSystemLog from its own goroutine.
// ═══════════════════════════════════════════════════════════════════════════

// AuditConfig tunes the recorder.
type AuditConfig struct {
	// QueueSize is the event buffer capacity. When the buffer is full new
	// events are dropped and counted rather than blocking the mutating call.
	QueueSize int
}

// DefaultAuditConfig returns the default recorder configuration.
func DefaultAuditConfig() AuditConfig {
	return AuditConfig{QueueSize: 256}
}

// AuditRecorder writes one SystemLog entry per store mutation.
type AuditRecorder struct {
	store  *store.Store
	logger *slog.Logger

	queue chan shared.Event
	wg    sync.WaitGroup

	mu      sync.Mutex
	dropped int64
	started bool
	stopped bool
}

// NewAuditRecorder creates a recorder writing through the given store.
func NewAuditRecorder(st *store.Store, logger *slog.Logger, cfg AuditConfig) *AuditRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultAuditConfig().QueueSize
	}
	return &AuditRecorder{
		store:  st,
		logger: logger.With("handler", "audit_recorder"),
		queue:  make(chan shared.Event, cfg.QueueSize),
	}
}

// Start launches the background worker. Call once before subscribing.
func (r *AuditRecorder) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.run(ctx)
}

// Handle implements shared.EventHandler. It never blocks: when the queue is
// full the event is dropped and counted.
func (r *AuditRecorder) Handle(e shared.Event) {
	// Audit entries are themselves store mutations; recording them again
	// would loop forever.
	if e.Kind == shared.KindSystemLog {
		return
	}

	select {
	case r.queue <- e:
	default:
		r.mu.Lock()
		r.dropped++
		dropped := r.dropped
		r.mu.Unlock()
		r.logger.Warn("audit queue full, event dropped",
			"kind", e.Kind, "op", e.Op, "total_dropped", dropped)
	}
}

// Dropped returns how many events were discarded on a full queue.
func (r *AuditRecorder) Dropped() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Stop closes the queue and waits for the worker to drain it.
func (r *AuditRecorder) Stop() {
	r.mu.Lock()
	if !r.started || r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.queue)
	r.wg.Wait()
}

func (r *AuditRecorder) run(ctx context.Context) {
	defer r.wg.Done()

	for e := range r.queue {
		entry := entity.SystemLog{
			Action: fmt.Sprintf("%s.%s", e.Kind, e.Op),
			Detail: describe(e),
		}
		if _, err := r.store.CreateSystemLog(ctx, entry); err != nil {
			// The store is closing or closed; nothing useful left to do.
			r.logger.Warn("audit entry not recorded", "action", entry.Action, "error", err)
		}
	}
}

// describe renders a short human-readable line for the audit detail field.
func describe(e shared.Event) string {
	switch rec := e.Record.(type) {
	case entity.User:
		return fmt.Sprintf("user %d (%s)", rec.ID, rec.Email)
	case entity.Student:
		return fmt.Sprintf("student %d (%s)", rec.ID, rec.RollNumber)
	case entity.WeeklyReport:
		return fmt.Sprintf("report %d week %d by student %d", rec.ID, rec.Week, rec.StudentID)
	case entity.Certificate:
		return fmt.Sprintf("certificate %d (%s) of student %d", rec.ID, rec.Name, rec.StudentID)
	case entity.NOCRequest:
		return fmt.Sprintf("noc request %d by student %d for %s", rec.ID, rec.StudentID, rec.Company)
	case entity.Company:
		return fmt.Sprintf("company %d (%s)", rec.ID, rec.Name)
	case entity.Opportunity:
		return fmt.Sprintf("opportunity %d (%s) at company %d", rec.ID, rec.Title, rec.CompanyID)
	case entity.AssignedTask:
		return fmt.Sprintf("task %d (%s) for student %d", rec.ID, rec.Title, rec.StudentID)
	case entity.TaskStatus:
		return fmt.Sprintf("task %d status %s by student %d", rec.TaskID, rec.Status, rec.StudentID)
	case entity.Application:
		return fmt.Sprintf("application %d by student %d to opportunity %d", rec.ID, rec.StudentID, rec.OpportunityID)
	default:
		return fmt.Sprintf("%s record", e.Kind)
	}
}
