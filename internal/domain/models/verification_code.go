// File: internal/domain/models/verification_code.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationPurpose distinguishes the flows a verification code serves.
type VerificationPurpose string

const (
	PurposeEmailConfirmation VerificationPurpose = "email_confirmation"
	PurposePasswordReset     VerificationPurpose = "password_reset"
)

// VerificationCode is a single-use, expiring code mailed to the user,
// stored hashed.
type VerificationCode struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CodeHash  string
	Purpose   VerificationPurpose
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
