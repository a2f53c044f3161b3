package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// User is a registered account
type User struct {
	ID           UserID     `json:"id"`
	Username     string     `json:"username"` // login username (immutable)
	Nickname     string     `json:"nickname"`
	Bio          string     `json:"bio"`
	Role         SystemRole `json:"role"`
	PasswordHash string     `json:"password_hash"` // bcrypt hash
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Requester returns the identity used for policy evaluation
func (u *User) Requester() Requester {
	return Requester{UserID: u.ID, Role: u.Role}
}
