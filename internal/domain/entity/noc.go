package entity

import "time"

// NOCStatus is the review state of a no-objection certificate request.
type NOCStatus string

const (
	// NOCPending - submitted, awaiting the TP officer.
	NOCPending NOCStatus = "pending"
	// NOCApproved - approved; the student may start the internship.
	NOCApproved NOCStatus = "approved"
	// NOCRejected - denied.
	NOCRejected NOCStatus = "rejected"
)

// IsValid checks membership in the closed NOC status set.
func (s NOCStatus) IsValid() bool {
	switch s {
	case NOCPending, NOCApproved, NOCRejected:
		return true
	default:
		return false
	}
}

// NOCRequest is a student's request for a no-objection certificate to take
// up an internship at an external company. Dates are caller-formatted
// strings; the store does not interpret them.
type NOCRequest struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Status      NOCStatus `json:"status"`
	Remarks     string    `json:"remarks"`
	RequestedAt time.Time `json:"requested_at"`
}

// NOCRequestPatch is a partial update for NOCRequest.
type NOCRequestPatch struct {
	Company   *string    `json:"company,omitempty"`
	Position  *string    `json:"position,omitempty"`
	StartDate *string    `json:"start_date,omitempty"`
	EndDate   *string    `json:"end_date,omitempty"`
	Status    *NOCStatus `json:"status,omitempty"`
	Remarks   *string    `json:"remarks,omitempty"`
}
