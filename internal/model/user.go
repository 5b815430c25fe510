package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// User represents a league member. Users are created on registration or
// entered by hand for members who never sign in themselves.
type User struct {
	ID        UserID
	Name      string
	Gamertag  string // unique when set; used as the identity key in CSV interchange
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RegisteredUser extends User with authentication data
// Stored separately for security (password never in memory with session)
type RegisteredUser struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
