// File: internal/domain/models/refresh_token.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the stored form of an opaque refresh token. Only the
// SHA-256 hash of the token value is persisted; the value itself exists
// only in the response that issued it.
type RefreshToken struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	TokenHash         string
	ExpiresAt         time.Time
	CreatedAt         time.Time
	CreatedByIP       string
	UserAgent         string
	RevokedAt         *time.Time
	RevokedByIP       *string
	ReplacedByTokenID *uuid.UUID
}

// IsExpired reports whether the token has passed its expiry.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IsRevoked reports whether the token has been explicitly revoked.
func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive reports whether the token can still be exchanged: not revoked
// and not expired.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
