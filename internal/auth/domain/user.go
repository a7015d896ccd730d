package domain

import "time"

// User is the persisted account record. RefreshTokenHash is nil when the
// account has no active session; only a bcrypt hash of the refresh token is
// ever stored.
type User struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
