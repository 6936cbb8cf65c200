package entity

import "time"

// AssignedTask is work a supervisor hands to a student.
//
// Tasks are soft-deleted: IsDeleted marks the record as removed while it
// stays addressable by id. Default list queries exclude soft-deleted tasks.
type AssignedTask struct {
	ID          int       `json:"id"`
	TeacherID   int       `json:"teacher_id"`
	StudentID   int       `json:"student_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"due_date"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignedTaskPatch is a partial update for AssignedTask. IsDeleted is
// engine-managed through the soft-delete operation, not patchable.
type AssignedTaskPatch struct {
	TeacherID   *int    `json:"teacher_id,omitempty"`
	StudentID   *int    `json:"student_id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// TaskProgress is a student's progress on an assigned task.
type TaskProgress string

const (
	// TaskNotStarted - no work recorded yet.
	TaskNotStarted TaskProgress = "not_started"
	// TaskInProgress - the student has started working.
	TaskInProgress TaskProgress = "in_progress"
	// TaskCompleted - the student marked the task done.
	TaskCompleted TaskProgress = "completed"
)

// IsValid checks membership in the closed task progress set.
func (p TaskProgress) IsValid() bool {
	switch p {
	case TaskNotStarted, TaskInProgress, TaskCompleted:
		return true
	default:
		return false
	}
}

// TaskStatus tracks one student's progress against one assigned task.
// TaskID and StudentID are soft references.
type TaskStatus struct {
	ID        int          `json:"id"`
	TaskID    int          `json:"task_id"`
	StudentID int          `json:"student_id"`
	Status    TaskProgress `json:"status"`
	Note      string       `json:"note"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TaskStatusPatch is a partial update for TaskStatus.
// The engine refreshes UpdatedAt on every merge; it is not patchable.
type TaskStatusPatch struct {
	Status *TaskProgress `json:"status,omitempty"`
	Note   *string       `json:"note,omitempty"`
}
