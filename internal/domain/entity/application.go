package entity

import "time"

// ApplicationStatus is the pipeline state of an internship application.
type ApplicationStatus string

const (
	// ApplicationApplied - submitted by the student.
	ApplicationApplied ApplicationStatus = "applied"
	// ApplicationShortlisted - picked by the company for interviews.
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	// ApplicationAccepted - offer made and accepted.
	ApplicationAccepted ApplicationStatus = "accepted"
	// ApplicationRejected - turned down.
	ApplicationRejected ApplicationStatus = "rejected"
)

// IsValid checks membership in the closed application status set.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationApplied, ApplicationShortlisted, ApplicationAccepted, ApplicationRejected:
		return true
	default:
		return false
	}
}

// Application is a student applying to an opportunity. Creating one also
// increments the opportunity's Applicants counter in the same logical
// transaction.
type Application struct {
	ID            int               `json:"id"`
	StudentID     int               `json:"student_id"`
	OpportunityID int               `json:"opportunity_id"`
	Resume        string            `json:"resume"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"applied_at"`
}

// ApplicationPatch is a partial update for Application.
type ApplicationPatch struct {
	Resume *string            `json:"resume,omitempty"`
	Status *ApplicationStatus `json:"status,omitempty"`
}
