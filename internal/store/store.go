// Package store implements the in-memory entity store that every portal
// dashboard reads and writes through. It is the single source of truth for
// all entity collections: it assigns identifiers, applies patch merges,
// persists a full snapshot after every mutation and announces every mutation
// on the event bus before the mutating call returns.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/snapshot"
	"github.com/intern-hub/intern-portal-hub/pkg/retry"
)

// Store is the shared entity store.
//
// Concurrency contract: every mutating operation runs read-modify-persist-
// publish as one unit under a single write lock, so id assignment and
// snapshot ordering never interleave across callers. Reads run concurrently
// with each other and always observe a consistent state.
//
// Event handlers run synchronously inside the mutation's critical section.
// A handler must not call back into the Store on the same goroutine - hand
// follow-up work to another goroutine instead.
type Store struct {
	mu    sync.RWMutex
	state State

	backend snapshot.Backend
	bus     shared.EventPublisher
	logger  *slog.Logger
	now     func() time.Time
	retrier *retry.Retrier

	saveTimeout  time.Duration
	saveFailures atomic.Int64
	lastSavedAt  atomic.Int64 // unix nanos, 0 = never
	closed       bool
}

// Options configures Open.
type Options struct {
	// Backend persists snapshots. Required.
	Backend snapshot.Backend

	// Bus receives one event per mutation. Required.
	Bus shared.EventPublisher

	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger

	// Now supplies timestamps. Defaults to time.Now in UTC. Tests inject a
	// fixed clock here.
	Now func() time.Time

	// SeedOnEmpty seeds baseline records when no snapshot exists, so the
	// surrounding application never sees a fully empty store.
	SeedOnEmpty bool

	// SaveAttempts is how many times a snapshot save is tried before the
	// failure is logged and dropped. Defaults to 2.
	SaveAttempts int

	// SaveTimeout bounds a single save attempt. Defaults to 5s.
	SaveTimeout time.Duration
}

// Open restores the store from its snapshot backend, seeding baseline
// records when nothing was ever persisted. A corrupt snapshot is logged and
// treated like an absent one rather than failing startup: the live in-memory
// view is the consistency anchor, durability is best-effort.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Backend == nil {
		return nil, shared.NewDomainError("store", "Open", shared.ErrInvalidInput, "nil snapshot backend")
	}
	if opts.Bus == nil {
		return nil, shared.NewDomainError("store", "Open", shared.ErrInvalidInput, "nil event bus")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.SaveAttempts <= 0 {
		opts.SaveAttempts = 2
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = 5 * time.Second
	}

	s := &Store{
		backend:     opts.Backend,
		bus:         opts.Bus,
		logger:      opts.Logger,
		now:         opts.Now,
		saveTimeout: opts.SaveTimeout,
		retrier: retry.New(
			retry.WithMaxAttempts(opts.SaveAttempts),
			retry.WithInitialDelay(50*time.Millisecond),
			retry.WithRetryIf(func(err error) bool {
				return !errors.Is(err, shared.ErrBackendClosed)
			}),
		),
	}

	blob, err := opts.Backend.Load(ctx)
	switch {
	case err == nil:
		state, decodeErr := DecodeState(blob)
		if decodeErr != nil {
			s.logger.Error("snapshot is unreadable, falling back to seed defaults", "error", decodeErr)
			state = s.freshState(opts.SeedOnEmpty)
		}
		s.state = state
		s.logger.Info("store restored from snapshot", "bytes", len(blob))
	case shared.IsNoSnapshot(err):
		s.state = s.freshState(opts.SeedOnEmpty)
		s.persist(ctx, "Open")
		s.logger.Info("no snapshot found, store initialized", "seeded", opts.SeedOnEmpty)
	default:
		// Backend unreachable at startup: same policy as a corrupt snapshot.
		s.logger.Error("snapshot load failed, falling back to seed defaults", "error", err)
		s.state = s.freshState(opts.SeedOnEmpty)
	}

	return s, nil
}

func (s *Store) freshState(seed bool) State {
	if seed {
		return seedState(s.now())
	}
	return NewState()
}

// ─────────────────────────────────────────────────────────────────────────────
// Internal plumbing
// ─────────────────────────────────────────────────────────────────────────────

// mutate runs fn under the write lock, then persists and publishes if fn
// produced an event. fn returning an error (typically ErrNotFound) leaves
// the state untouched: no snapshot, no event.
func (s *Store) mutate(ctx context.Context, op string, fn func(st *State) (shared.Event, error)) (shared.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return shared.Event{}, shared.NewDomainError("store", op, shared.ErrStoreClosed, "store is closed")
	}

	event, err := fn(&s.state)
	if err != nil {
		return shared.Event{}, err
	}

	// Persist first, publish second: a subscriber observing an event may
	// assume the snapshot save for that mutation has already been attempted.
	s.persist(ctx, op)
	s.bus.Publish(event)
	return event, nil
}

// read runs fn under the read lock. fn must copy anything it returns.
func (s *Store) read(op string, fn func(st *State)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return shared.NewDomainError("store", op, shared.ErrStoreClosed, "store is closed")
	}
	fn(&s.state)
	return nil
}

// persist encodes the whole state and saves it through the backend.
// Failures are logged and counted, never returned: a failed save must not
// roll back the in-memory mutation or surface to the caller.
func (s *Store) persist(ctx context.Context, op string) {
	blob, err := s.state.Encode()
	if err != nil {
		s.saveFailures.Add(1)
		s.logger.Error("snapshot encode failed", "op", op, "error", err)
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	err = s.retrier.Do(saveCtx, func(ctx context.Context) error {
		return s.backend.Save(ctx, blob)
	})
	if err != nil {
		s.saveFailures.Add(1)
		s.logger.Error("snapshot save failed", "op", op, "bytes", len(blob), "error", err)
		return
	}
	s.lastSavedAt.Store(s.now().UnixNano())
}

// newEvent stamps a mutation event. The bus assigns the event id.
func (s *Store) newEvent(kind shared.EntityKind, op shared.Operation, record any) shared.Event {
	return shared.Event{
		Kind:       kind,
		Op:         op,
		Record:     record,
		OccurredAt: s.now(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Introspection & lifecycle
// ─────────────────────────────────────────────────────────────────────────────

// Stats is a point-in-time summary for the ops endpoints.
type Stats struct {
	Counts       map[shared.EntityKind]int `json:"counts"`
	SaveFailures int64                     `json:"save_failures"`
	LastSavedAt  time.Time                 `json:"last_saved_at"`
}

// Stats returns collection counts and persistence health.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	counts := s.state.Counts()
	s.mu.RUnlock()

	st := Stats{
		Counts:       counts,
		SaveFailures: s.saveFailures.Load(),
	}
	if ns := s.lastSavedAt.Load(); ns > 0 {
		st.LastSavedAt = time.Unix(0, ns)
	}
	return st
}

// Snapshot returns a deep-enough copy of the current state for priming
// subscriber projections. Collection slices are fresh; records are values.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Close flushes a final snapshot and rejects further operations.
// The backend itself is closed by whoever created it.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.persist(ctx, "Close")
	s.closed = true
	s.logger.Info("store closed")
	return nil
}
