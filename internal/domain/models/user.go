// File: internal/domain/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record. TwoFactorSecret may be set while
// TwoFactorEnabled is still false: that is the pending state between
// 2FA setup and its verification.
type User struct {
	ID                uuid.UUID
	Email             string
	FirstName         string
	LastName          string
	PasswordHash      string
	EmailConfirmed    bool
	TwoFactorEnabled  bool
	TwoFactorSecret   *string
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName joins first and last name for notification payloads.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
