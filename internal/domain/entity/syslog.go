package entity

import "time"

// SystemLog is an append-only audit line describing who did what.
// Log records are immutable: they are created and listed, never updated
// or deleted, so SystemLog has no patch type.
type SystemLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}
