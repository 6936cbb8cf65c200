package entity

import "time"

// ReportStatus is the review state of a weekly report.
type ReportStatus string

const (
	// ReportPending - submitted, awaiting supervisor review.
	ReportPending ReportStatus = "pending"
	// ReportApproved - accepted by the supervisor.
	ReportApproved ReportStatus = "approved"
	// ReportRejected - rejected outright.
	ReportRejected ReportStatus = "rejected"
	// ReportRevisionRequired - sent back for changes.
	ReportRevisionRequired ReportStatus = "revision_required"
)

// IsValid checks membership in the closed report status set.
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportPending, ReportApproved, ReportRejected, ReportRevisionRequired:
		return true
	default:
		return false
	}
}

// WeeklyReport is one week of internship progress submitted by a student
// and reviewed by their supervisor.
type WeeklyReport struct {
	ID          int          `json:"id"`
	StudentID   int          `json:"student_id"`
	TeacherID   int          `json:"teacher_id"`
	Week        int          `json:"week"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Status      ReportStatus `json:"status"`
	Remarks     string       `json:"remarks"`
	SubmittedAt time.Time    `json:"submitted_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// WeeklyReportPatch is a partial update for WeeklyReport.
// The engine refreshes UpdatedAt on every merge; it is not patchable.
type WeeklyReportPatch struct {
	TeacherID *int          `json:"teacher_id,omitempty"`
	Week      *int          `json:"week,omitempty"`
	Title     *string       `json:"title,omitempty"`
	Content   *string       `json:"content,omitempty"`
	Status    *ReportStatus `json:"status,omitempty"`
	Remarks   *string       `json:"remarks,omitempty"`
}
