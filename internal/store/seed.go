package store

import (
	"time"

	"github.com/intern-hub/intern-portal-hub/internal/domain/entity"
)

// seedState builds the default dataset used when no snapshot exists yet:
// one account per role, a student profile for the student account, and one
// company with an open opportunity. The surrounding portals always have
// something to render on a fresh install.
func seedState(now time.Time) State {
	st := NewState()

	st.Users = []entity.User{
		seedUser(1, "Alikhan Serik", "student@portal.edu", "student123", entity.RoleStudent, now),
		seedUser(2, "Dana Mukhtar", "teacher@portal.edu", "teacher123", entity.RoleTeacher, now),
		seedUser(3, "Timur Bekov", "tpo@portal.edu", "tpo123", entity.RoleTPOfficer, now),
		seedUser(4, "Aigerim Nur", "admin@portal.edu", "admin123", entity.RoleAdmin, now),
	}

	st.Students = []entity.Student{{
		ID:         1,
		UserID:     1,
		Name:       "Alikhan Serik",
		RollNumber: "TR-2026-001",
		Department: "Computer Science",
		TeacherID:  2,
		CreatedAt:  now,
	}}

	st.Companies = []entity.Company{{
		ID:        1,
		Name:      "NovaSoft Systems",
		Industry:  "Software",
		Location:  "Almaty",
		Website:   "https://novasoft.example",
		CreatedAt: now,
	}}

	st.Opportunities = []entity.Opportunity{{
		ID:          1,
		CompanyID:   1,
		Title:       "Backend Intern",
		Description: "Build and maintain internal services on the platform team.",
		Location:    "Almaty",
		Stipend:     "120000 KZT",
		Deadline:    "2026-10-01",
		Applicants:  0,
		PostedAt:    now,
	}}

	return st
}

func seedUser(id int, name, email, password string, role entity.Role, now time.Time) entity.User {
	u := entity.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
	}
	// bcrypt fails only on an out-of-range cost; with the default cost the
	// hash always succeeds, so a failed seed password is left empty.
	if err := u.SetPassword(password); err != nil {
		u.PasswordHash = ""
	}
	return u
}
