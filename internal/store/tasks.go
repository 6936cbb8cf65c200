package store

import (
	"context"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
	"github.com/intern-hub/intern-portal-hub/internal/domain/shared"
)

func taskID(t entity.AssignedTask) int { return t.ID }

func taskStatusID(ts entity.TaskStatus) int { return ts.ID }

func notDeleted(t entity.AssignedTask) bool { return !t.IsDeleted }

// CreateTask appends a new assigned task with an engine-assigned id and
// creation timestamp.
func (s *Store) CreateTask(ctx context.Context, t entity.AssignedTask) (entity.AssignedTask, error) {
	event, err := s.mutate(ctx, "CreateTask", func(st *State) (shared.Event, error) {
		t.ID = nextID(st.Tasks, taskID)
		t.CreatedAt = s.now()
		t.IsDeleted = false
		st.Tasks = append(st.Tasks, t)
		return s.newEvent(shared.KindAssignedTask, shared.OpCreated, t), nil
	})
	if err != nil {
		return entity.AssignedTask{}, err
	}
	return event.Record.(entity.AssignedTask), nil
}

// GetTaskByID returns the task with the given id. Soft-deleted tasks stay
// addressable here even though list queries exclude them.
func (s *Store) GetTaskByID(ctx context.Context, id int) (entity.AssignedTask, error) {
	var (
		out   entity.AssignedTask
		found bool
	)
	if err := s.read("GetTaskByID", func(st *State) {
		if i := indexByID(st.Tasks, taskID, id); i >= 0 {
			out, found = st.Tasks[i], true
		}
	}); err != nil {
		return entity.AssignedTask{}, err
	}
	if !found {
		return entity.AssignedTask{}, ErrTaskNotFound
	}
	return out, nil
}

// UpdateTask shallow-merges the patch over the stored task. The IsDeleted
// flag is only ever set through DeleteTask.
func (s *Store) UpdateTask(ctx context.Context, id int, patch entity.AssignedTaskPatch) (entity.AssignedTask, error) {
	event, err := s.mutate(ctx, "UpdateTask", func(st *State) (shared.Event, error) {
		i := indexByID(st.Tasks, taskID, id)
		if i < 0 {
			return shared.Event{}, ErrTaskNotFound
		}
		t := st.Tasks[i]
		if patch.TeacherID != nil {
			t.TeacherID = *patch.TeacherID
		}
		if patch.StudentID != nil {
			t.StudentID = *patch.StudentID
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.DueDate != nil {
			t.DueDate = *patch.DueDate
		}
		st.Tasks[i] = t
		return s.newEvent(shared.KindAssignedTask, shared.OpUpdated, t), nil
	})
	if err != nil {
		return entity.AssignedTask{}, err
	}
	return event.Record.(entity.AssignedTask), nil
}

// DeleteTask soft-deletes a task: the record keeps its id and stays
// addressable through GetTaskByID, but default list queries exclude it and
// subscribers receive a deleted event so their caches drop the entry.
func (s *Store) DeleteTask(ctx context.Context, id int) error {
	_, err := s.mutate(ctx, "DeleteTask", func(st *State) (shared.Event, error) {
		i := indexByID(st.Tasks, taskID, id)
		if i < 0 {
			return shared.Event{}, ErrTaskNotFound
		}
		st.Tasks[i].IsDeleted = true
		return s.newEvent(shared.KindAssignedTask, shared.OpDeleted, st.Tasks[i]), nil
	})
	return err
}

// ListTasks returns every task that is not soft-deleted.
func (s *Store) ListTasks(ctx context.Context) ([]entity.AssignedTask, error) {
	var out []entity.AssignedTask
	err := s.read("ListTasks", func(st *State) {
		out = filterCopy(st.Tasks, notDeleted)
	})
	return out, err
}

// ListTasksByTeacher returns a teacher's live (non-deleted) tasks.
func (s *Store) ListTasksByTeacher(ctx context.Context, teacherID int) ([]entity.AssignedTask, error) {
	var out []entity.AssignedTask
	err := s.read("ListTasksByTeacher", func(st *State) {
		out = filterCopy(st.Tasks, func(t entity.AssignedTask) bool {
			return !t.IsDeleted && t.TeacherID == teacherID
		})
	})
	return out, err
}

// ListTasksByStudent returns the live (non-deleted) tasks assigned to a
// student.
func (s *Store) ListTasksByStudent(ctx context.Context, studentID int) ([]entity.AssignedTask, error) {
	var out []entity.AssignedTask
	err := s.read("ListTasksByStudent", func(st *State) {
		out = filterCopy(st.Tasks, func(t entity.AssignedTask) bool {
			return !t.IsDeleted && t.StudentID == studentID
		})
	})
	return out, err
}

// ─────────────────────────────────────────────────────────────────────────────
// Task statuses
// ─────────────────────────────────────────────────────────────────────────────

// CreateTaskStatus appends a progress row for a task/student pair.
func (s *Store) CreateTaskStatus(ctx context.Context, ts entity.TaskStatus) (entity.TaskStatus, error) {
	event, err := s.mutate(ctx, "CreateTaskStatus", func(st *State) (shared.Event, error) {
		ts.ID = nextID(st.TaskStatuses, taskStatusID)
		ts.UpdatedAt = s.now()
		st.TaskStatuses = append(st.TaskStatuses, ts)
		return s.newEvent(shared.KindTaskStatus, shared.OpCreated, ts), nil
	})
	if err != nil {
		return entity.TaskStatus{}, err
	}
	return event.Record.(entity.TaskStatus), nil
}

// GetTaskStatusByID returns the status row with the given id.
func (s *Store) GetTaskStatusByID(ctx context.Context, id int) (entity.TaskStatus, error) {
	var (
		out   entity.TaskStatus
		found bool
	)
	if err := s.read("GetTaskStatusByID", func(st *State) {
		if i := indexByID(st.TaskStatuses, taskStatusID, id); i >= 0 {
			out, found = st.TaskStatuses[i], true
		}
	}); err != nil {
		return entity.TaskStatus{}, err
	}
	if !found {
		return entity.TaskStatus{}, ErrTaskStatusNotFound
	}
	return out, nil
}

// UpdateTaskStatus shallow-merges the patch and refreshes UpdatedAt.
func (s *Store) UpdateTaskStatus(ctx context.Context, id int, patch entity.TaskStatusPatch) (entity.TaskStatus, error) {
	event, err := s.mutate(ctx, "UpdateTaskStatus", func(st *State) (shared.Event, error) {
		i := indexByID(st.TaskStatuses, taskStatusID, id)
		if i < 0 {
			return shared.Event{}, ErrTaskStatusNotFound
		}
		ts := st.TaskStatuses[i]
		if patch.Status != nil {
			ts.Status = *patch.Status
		}
		if patch.Note != nil {
			ts.Note = *patch.Note
		}
		ts.UpdatedAt = s.now()
		st.TaskStatuses[i] = ts
		return s.newEvent(shared.KindTaskStatus, shared.OpUpdated, ts), nil
	})
	if err != nil {
		return entity.TaskStatus{}, err
	}
	return event.Record.(entity.TaskStatus), nil
}

// ListTaskStatuses returns every progress row.
func (s *Store) ListTaskStatuses(ctx context.Context) ([]entity.TaskStatus, error) {
	var out []entity.TaskStatus
	err := s.read("ListTaskStatuses", func(st *State) {
		out = filterCopy(st.TaskStatuses, func(entity.TaskStatus) bool { return true })
	})
	return out, err
}

// ListTaskStatusesByTask returns the progress rows recorded against a task.
func (s *Store) ListTaskStatusesByTask(ctx context.Context, taskID int) ([]entity.TaskStatus, error) {
	var out []entity.TaskStatus
	err := s.read("ListTaskStatusesByTask", func(st *State) {
		out = filterCopy(st.TaskStatuses, func(ts entity.TaskStatus) bool { return ts.TaskID == taskID })
	})
	return out, err
}

// ListTaskStatusesByStudent returns a student's progress rows.
func (s *Store) ListTaskStatusesByStudent(ctx context.Context, studentID int) ([]entity.TaskStatus, error) {
	var out []entity.TaskStatus
	err := s.read("ListTaskStatusesByStudent", func(st *State) {
		out = filterCopy(st.TaskStatuses, func(ts entity.TaskStatus) bool { return ts.StudentID == studentID })
	})
	return out, err
}
