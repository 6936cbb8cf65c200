package eventhandler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/messaging"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/snapshot"
	"github.com/intern-hub/intern-portal-hub/internal/store"
)

func newAuditFixture(t *testing.T) (*store.Store, *messaging.SyncEventBus) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	bus := messaging.NewSyncEventBus(messaging.Config{Logger: log})
	s, err := store.Open(context.Background(), store.Options{
		Backend: snapshot.NewMemoryBackend(),
		Bus:     bus,
		Logger:  log,
	})
	require.NoError(t, err)
	return s, bus
}

func TestAuditRecorderWritesSystemLogs(t *testing.T) {
	s, bus := newAuditFixture(t)
	ctx := context.Background()

	rec := NewAuditRecorder(s, slog.New(slog.NewTextHandler(io.Discard, nil)), DefaultAuditConfig())
	rec.Start(ctx)
	defer bus.Subscribe(rec.Handle)()

	u, err := s.CreateUser(ctx, entity.User{Name: "a", Email: "a@portal.edu", Role: entity.RoleStudent})
	require.NoError(t, err)
	name := "b"
	_, err = s.UpdateUser(ctx, u.ID, entity.UserPatch{Name: &name})
	require.NoError(t, err)

	// Stop drains the queue, so afterwards every queued entry is recorded.
	rec.Stop()

	logs, err := s.ListSystemLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	actions := []string{logs[0].Action, logs[1].Action}
	assert.Contains(t, actions, "user.created")
	assert.Contains(t, actions, "user.updated")
	assert.Contains(t, logs[0].Detail, "a@portal.edu")
}

func TestAuditRecorderSkipsItsOwnEntries(t *testing.T) {
	s, bus := newAuditFixture(t)
	ctx := context.Background()

	rec := NewAuditRecorder(s, slog.New(slog.NewTextHandler(io.Discard, nil)), DefaultAuditConfig())
	rec.Start(ctx)
	defer bus.Subscribe(rec.Handle)()

	// Direct system log writes publish system_log events; recording those
	// again would recurse forever, so exactly one entry must exist.
	_, err := s.CreateSystemLog(ctx, entity.SystemLog{UserID: 4, Action: "manual", Detail: "by hand"})
	require.NoError(t, err)

	rec.Stop()

	logs, err := s.ListSystemLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "manual", logs[0].Action)
}

func TestAuditRecorderDropsWhenQueueFull(t *testing.T) {
	s, _ := newAuditFixture(t)

	// Worker never started: the queue only fills up.
	rec := NewAuditRecorder(s, slog.New(slog.NewTextHandler(io.Discard, nil)), AuditConfig{QueueSize: 1})

	rec.Handle(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated, Record: entity.User{ID: 1}})
	rec.Handle(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated, Record: entity.User{ID: 2}})
	rec.Handle(shared.Event{Kind: shared.KindUser, Op: shared.OpCreated, Record: entity.User{ID: 3}})

	assert.Equal(t, int64(2), rec.Dropped())
}

func TestAuditRecorderStopIsIdempotent(t *testing.T) {
	s, _ := newAuditFixture(t)

	rec := NewAuditRecorder(s, slog.New(slog.NewTextHandler(io.Discard, nil)), DefaultAuditConfig())
	rec.Start(context.Background())
	rec.Stop()
	rec.Stop()

	// Stop before Start is also a no-op.
	idle := NewAuditRecorder(s, slog.New(slog.NewTextHandler(io.Discard, nil)), DefaultAuditConfig())
	idle.Stop()
}
