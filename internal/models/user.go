package models

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// DateLayout is the calendar-date form used for LastResetDate.
const DateLayout = "2006-01-02"

type User struct {
	ID            string    `json:"id" example:"6f1c2a8e-3c55-4b8e-9a52-2f0f5d2f6f10"`
	Email         string    `json:"email" example:"shop@example.com"`
	Role          Role      `json:"role" example:"user"`
	UsageCount    int       `json:"credits_used" example:"2"`
	UsageLimit    int       `json:"max_credits" example:"5"`
	LastResetDate string    `json:"last_reset_date" example:"2026-10-19"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Remaining reports how many generations are left today, never negative.
func (u *User) Remaining() int {
	if u.UsageCount >= u.UsageLimit {
		return 0
	}
	return u.UsageLimit - u.UsageCount
}
