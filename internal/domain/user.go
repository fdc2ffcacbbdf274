package domain

import "time"

// User represents the authenticated account that owns the reading log.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string    `json:"display_name"`
	LastLoginAt  time.Time `json:"last_login_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Name returns the best available name to display for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// Sanitized returns a copy safe for API responses, with the password
// hash cleared.
func (u *User) Sanitized() *User {
	clean := *u
	clean.PasswordHash = ""
	return &clean
}
