package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/snapshot"
)

// captureBus records every published event so tests can assert on the
// exact fan-out a mutation produced.
type captureBus struct {
	events []shared.Event
}

func (b *captureBus) Publish(e shared.Event) {
	b.events = append(b.events, e)
}

func (b *captureBus) last() shared.Event {
	return b.events[len(b.events)-1]
}

// failingBackend rejects every save so tests can observe the swallow-and-log
// policy for persistence failures.
type failingBackend struct{}

func (failingBackend) Load(context.Context) ([]byte, error) { return nil, shared.ErrNoSnapshot }
func (failingBackend) Save(context.Context, []byte) error   { return errors.New("disk on fire") }
func (failingBackend) Close() error                         { return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var testTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *snapshot.MemoryBackend, *captureBus) {
	t.Helper()
	backend := snapshot.NewMemoryBackend()
	bus := &captureBus{}
	s, err := Open(context.Background(), Options{
		Backend: backend,
		Bus:     bus,
		Logger:  quietLogger(),
		Now:     fixedClock(testTime),
	})
	require.NoError(t, err)
	return s, backend, bus
}

func TestOpenRequiresBackendAndBus(t *testing.T) {
	_, err := Open(context.Background(), Options{Bus: &captureBus{}})
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{Backend: snapshot.NewMemoryBackend()})
	assert.Error(t, err)
}

func TestOpenSeedsWhenNoSnapshot(t *testing.T) {
	backend := snapshot.NewMemoryBackend()
	s, err := Open(context.Background(), Options{
		Backend:     backend,
		Bus:         &captureBus{},
		Logger:      quietLogger(),
		Now:         fixedClock(testTime),
		SeedOnEmpty: true,
	})
	require.NoError(t, err)

	ctx := context.Background()

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)

	roles := map[entity.Role]bool{}
	for _, u := range users {
		roles[u.Role] = true
		assert.NotEmpty(t, u.PasswordHash)
	}
	assert.True(t, roles[entity.RoleStudent])
	assert.True(t, roles[entity.RoleTeacher])
	assert.True(t, roles[entity.RoleTPOfficer])
	assert.True(t, roles[entity.RoleAdmin])

	student, err := s.GetUserByEmail(ctx, "student@portal.edu")
	require.NoError(t, err)
	assert.True(t, student.CheckPassword("student123"))

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "TR-2026-001", students[0].RollNumber)

	companies, err := s.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 1)

	opps, err := s.ListOpportunities(ctx)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, 0, opps[0].Applicants)

	// The freshly seeded state is persisted immediately so a crash before
	// the first mutation still leaves a snapshot behind.
	assert.Equal(t, 1, backend.SaveCount())
}

func TestOpenWithoutSeedStartsEmpty(t *testing.T) {
	s, _, _ := newTestStore(t)

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOpenRestoresFromSnapshot(t *testing.T) {
	backend := snapshot.NewMemoryBackend()
	ctx := context.Background()

	s1, err := Open(ctx, Options{Backend: backend, Bus: &captureBus{}, Logger: quietLogger(), Now: fixedClock(testTime)})
	require.NoError(t, err)

	created, err := s1.CreateUser(ctx, entity.User{Name: "Aruzhan", Email: "aruzhan@portal.edu", Role: entity.RoleTeacher})
	require.NoError(t, err)
	require.NoError(t, s1.Close(ctx))

	s2, err := Open(ctx, Options{Backend: backend, Bus: &captureBus{}, Logger: quietLogger(), Now: fixedClock(testTime), SeedOnEmpty: true})
	require.NoError(t, err)

	got, err := s2.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// A snapshot was present, so SeedOnEmpty must not have added anything.
	users, err := s2.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestOpenCorruptSnapshotFallsBackToSeed(t *testing.T) {
	backend := snapshot.NewMemoryBackend()
	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, []byte("{not json")))

	s, err := Open(ctx, Options{
		Backend:     backend,
		Bus:         &captureBus{},
		Logger:      quietLogger(),
		Now:         fixedClock(testTime),
		SeedOnEmpty: true,
	})
	require.NoError(t, err)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		u, err := s.CreateUser(ctx, entity.User{Name: "u", Email: "u@portal.edu", Role: entity.RoleStudent})
		require.NoError(t, err)
		assert.Equal(t, i, u.ID)
	}
}

func TestCreateOverridesCallerAssignedFields(t *testing.T) {
	s, _, _ := newTestStore(t)

	u, err := s.CreateUser(context.Background(), entity.User{
		ID:        99,
		Name:      "Madina",
		Email:     "madina@portal.edu",
		Role:      entity.RoleStudent,
		CreatedAt: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.Equal(t, testTime, u.CreatedAt)
}

func TestIDsAreMaxPlusOne(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateCertificate(ctx, entity.Certificate{StudentID: 1, Name: "cert"})
		require.NoError(t, err)
	}

	// Removing the highest id frees it for reuse; removing a middle id
	// does not shift anything.
	require.NoError(t, s.DeleteCertificate(ctx, 3))
	c, err := s.CreateCertificate(ctx, entity.Certificate{StudentID: 1, Name: "cert"})
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)

	require.NoError(t, s.DeleteCertificate(ctx, 2))
	c, err = s.CreateCertificate(ctx, entity.Certificate{StudentID: 1, Name: "cert"})
	require.NoError(t, err)
	assert.Equal(t, 4, c.ID)
}

func TestUpdateMergesPatch(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, entity.User{Name: "Old Name", Email: "old@portal.edu", Role: entity.RoleStudent})
	require.NoError(t, err)

	newName := "New Name"
	got, err := s.UpdateUser(ctx, u.ID, entity.UserPatch{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "old@portal.edu", got.Email, "unset patch fields keep their stored values")
	assert.Equal(t, entity.RoleStudent, got.Role)
	assert.Equal(t, u.CreatedAt, got.CreatedAt)
}

func TestNotFoundIsSentinelAndSideEffectFree(t *testing.T) {
	s, backend, bus := newTestStore(t)
	ctx := context.Background()
	savesBefore := backend.SaveCount()
	eventsBefore := len(bus.events)

	_, err := s.GetUserByID(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	name := "nobody"
	_, err = s.UpdateUser(ctx, 42, entity.UserPatch{Name: &name})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// A failed mutation must not persist or publish anything.
	assert.Equal(t, savesBefore, backend.SaveCount())
	assert.Equal(t, eventsBefore, len(bus.events))
}

func TestEveryMutationPersistsASnapshot(t *testing.T) {
	s, backend, _ := newTestStore(t)
	ctx := context.Background()
	base := backend.SaveCount()

	u, err := s.CreateUser(ctx, entity.User{Name: "a", Email: "a@portal.edu", Role: entity.RoleStudent})
	require.NoError(t, err)
	name := "b"
	_, err = s.UpdateUser(ctx, u.ID, entity.UserPatch{Name: &name})
	require.NoError(t, err)
	_, err = s.CreateCompany(ctx, entity.Company{Name: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, base+3, backend.SaveCount())
}

func TestSaveFailuresAreSwallowed(t *testing.T) {
	s, err := Open(context.Background(), Options{
		Backend:      failingBackend{},
		Bus:          &captureBus{},
		Logger:       quietLogger(),
		Now:          fixedClock(testTime),
		SaveAttempts: 1,
	})
	require.NoError(t, err)

	// The mutation succeeds even though every save fails.
	u, err := s.CreateUser(context.Background(), entity.User{Name: "a", Email: "a@portal.edu", Role: entity.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)

	got, err := s.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	assert.Greater(t, s.Stats().SaveFailures, int64(0))
}

func TestEventsCarryTheResultingRecord(t *testing.T) {
	s, _, bus := newTestStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, entity.User{Name: "a", Email: "a@portal.edu", Role: entity.RoleStudent})
	require.NoError(t, err)

	e := bus.last()
	assert.Equal(t, shared.KindUser, e.Kind)
	assert.Equal(t, shared.OpCreated, e.Op)
	assert.Equal(t, u, e.Record, "the event record is the same value the caller got back")
	assert.Equal(t, testTime, e.OccurredAt)

	name := "b"
	updated, err := s.UpdateUser(ctx, u.ID, entity.UserPatch{Name: &name})
	require.NoError(t, err)

	e = bus.last()
	assert.Equal(t, shared.OpUpdated, e.Op)
	assert.Equal(t, updated, e.Record)
}

func TestGetUserByEmail(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, entity.User{Name: "a", Email: "a@portal.edu", Role: entity.RoleTeacher})
	require.NoError(t, err)

	got, err := s.GetUserByEmail(ctx, "a@portal.edu")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.GetUserByEmail(ctx, "missing@portal.edu")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListStudentsByTeacher(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, teacherID := range []int{2, 2, 3} {
		_, err := s.CreateStudent(ctx, entity.Student{UserID: 1, Name: "s", TeacherID: teacherID})
		require.NoError(t, err)
	}

	mine, err := s.ListStudentsByTeacher(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	other, err := s.ListStudentsByTeacher(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSnapshotDetachesFromEngineState(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCompany(ctx, entity.Company{Name: "Acme"})
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Companies[0].Name = "Mutated"

	got, err := s.GetCompanyByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	s, backend, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCompany(ctx, entity.Company{Name: "Acme"})
	require.NoError(t, err)
	saves := backend.SaveCount()

	require.NoError(t, s.Close(ctx))
	assert.Equal(t, saves+1, backend.SaveCount(), "Close flushes a final snapshot")

	_, err = s.CreateCompany(ctx, entity.Company{Name: "Late"})
	assert.ErrorIs(t, err, shared.ErrStoreClosed)
	_, err = s.ListCompanies(ctx)
	assert.ErrorIs(t, err, shared.ErrStoreClosed)

	// Closing twice is a no-op.
	require.NoError(t, s.Close(ctx))
}

func TestStatsCountsEveryKind(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, entity.User{Name: "a", Email: "a@portal.edu", Role: entity.RoleStudent})
	require.NoError(t, err)
	_, err = s.CreateCompany(ctx, entity.Company{Name: "Acme"})
	require.NoError(t, err)

	counts := s.Stats().Counts
	assert.Equal(t, 1, counts[shared.KindUser])
	assert.Equal(t, 1, counts[shared.KindCompany])
	assert.Equal(t, 0, counts[shared.KindWeeklyReport])
	assert.Len(t, counts, len(shared.AllKinds()))
}
