package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Role determines what portal a user signs into.
type Role string

const (
	// RoleStudent - an intern enrolled in the training program.
	RoleStudent Role = "student"
	// RoleTeacher - a faculty supervisor reviewing reports and tasks.
	RoleTeacher Role = "teacher"
	// RoleTPOfficer - the training & placement officer managing companies.
	RoleTPOfficer Role = "tp-officer"
	// RoleAdmin - full administrative access.
	RoleAdmin Role = "admin"
)

// IsValid checks that the role is one of the portal roles.
// The store itself never calls this; role membership is the caller's job.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleTPOfficer, RoleAdmin:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// USER
// ══════════════════════════════════════════════════════════════════════════════

// User is a portal account. One exists per person regardless of role.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// SetPassword hashes the plaintext password with bcrypt and stores the hash.
func (u *User) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

// UserPatch is a partial update for User. Nil fields are left unchanged.
type UserPatch struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	PasswordHash *string `json:"password_hash,omitempty"`
	Role         *Role   `json:"role,omitempty"`
}
