package entity

import "time"

// Student is the training profile behind a student User account.
// UserID links to the portal account; TeacherID is the assigned supervisor.
// Both are soft references.
type Student struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	Name       string    `json:"name"`
	RollNumber string    `json:"roll_number"`
	Department string    `json:"department"`
	TeacherID  int       `json:"teacher_id"`
	Company    string    `json:"company"`
	CreatedAt  time.Time `json:"created_at"`
}

// StudentPatch is a partial update for Student. Nil fields are left unchanged.
type StudentPatch struct {
	UserID     *int    `json:"user_id,omitempty"`
	Name       *string `json:"name,omitempty"`
	RollNumber *string `json:"roll_number,omitempty"`
	Department *string `json:"department,omitempty"`
	TeacherID  *int    `json:"teacher_id,omitempty"`
	Company    *string `json:"company,omitempty"`
}
