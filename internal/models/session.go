package models

import "time"

// Session is the persisted pointer from a login session to a user record.
// It deliberately carries no copy of the user.
type Session struct {
	ID        string    `json:"id" example:"a1b2c3d4-e5f6-7890-1234-567890abcdef"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is set by stores that expire pointers themselves; zero
	// means the pointer does not expire.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}
