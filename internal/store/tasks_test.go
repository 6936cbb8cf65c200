package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
	"github.com/intern-hub/intern-portal-hub/internal/infrastructure/persistence/snapshot"
)

func TestDeleteTaskIsSoft(t *testing.T) {
	s, _, bus := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, entity.AssignedTask{TeacherID: 2, StudentID: 1, Title: "Write report"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTask(ctx, task.ID))

	// Gone from every list query.
	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	byTeacher, err := s.ListTasksByTeacher(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, byTeacher)

	byStudent, err := s.ListTasksByStudent(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, byStudent)

	// Still addressable by id, flagged as deleted.
	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, "Write report", got.Title)

	// Subscribers see a deleted event carrying the flagged record.
	e := bus.last()
	assert.Equal(t, shared.KindAssignedTask, e.Kind)
	assert.Equal(t, shared.OpDeleted, e.Op)
	assert.True(t, e.Record.(entity.AssignedTask).IsDeleted)
}

func TestDeleteTaskDoesNotFreeItsID(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	t1, err := s.CreateTask(ctx, entity.AssignedTask{TeacherID: 2, StudentID: 1, Title: "first"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, t1.ID))

	// The soft-deleted record still occupies its id, so the next task gets
	// a fresh one.
	t2, err := s.CreateTask(ctx, entity.AssignedTask{TeacherID: 2, StudentID: 1, Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, t1.ID+1, t2.ID)
}

func TestDeleteTaskNotFound(t *testing.T) {
	s, _, _ := newTestStore(t)

	err := s.DeleteTask(context.Background(), 42)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateTaskCannotResurrect(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, entity.AssignedTask{TeacherID: 2, StudentID: 1, Title: "t"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteTask(ctx, task.ID))

	// Patches have no IsDeleted field; an update leaves the flag alone.
	title := "renamed"
	got, err := s.UpdateTask(ctx, task.ID, entity.AssignedTaskPatch{Title: &title})
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, "renamed", got.Title)
}

func TestTaskStatusFlow(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	ts, err := s.CreateTaskStatus(ctx, entity.TaskStatus{TaskID: 1, StudentID: 1, Status: entity.TaskNotStarted})
	require.NoError(t, err)
	assert.Equal(t, 1, ts.ID)
	assert.Equal(t, testTime, ts.UpdatedAt)

	done := entity.TaskCompleted
	note := "shipped"
	got, err := s.UpdateTaskStatus(ctx, ts.ID, entity.TaskStatusPatch{Status: &done, Note: &note})
	require.NoError(t, err)
	assert.Equal(t, entity.TaskCompleted, got.Status)
	assert.Equal(t, "shipped", got.Note)

	byTask, err := s.ListTaskStatusesByTask(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byTask, 1)
	assert.Equal(t, got, byTask[0])
}

func TestUpdateTaskStatusRefreshesTimestamp(t *testing.T) {
	backend := snapshot.NewMemoryBackend()
	clock := testTime
	s, err := Open(context.Background(), Options{
		Backend: backend,
		Bus:     &captureBus{},
		Logger:  quietLogger(),
		Now:     func() time.Time { return clock },
	})
	require.NoError(t, err)
	ctx := context.Background()

	ts, err := s.CreateTaskStatus(ctx, entity.TaskStatus{TaskID: 1, StudentID: 1, Status: entity.TaskNotStarted})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	started := entity.TaskInProgress
	got, err := s.UpdateTaskStatus(ctx, ts.ID, entity.TaskStatusPatch{Status: &started})
	require.NoError(t, err)
	assert.Equal(t, testTime.Add(time.Hour), got.UpdatedAt)
}
