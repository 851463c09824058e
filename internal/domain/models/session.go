// File: internal/domain/models/session.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the API view of an active refresh token. ID is the token
// row's identifier, never the token value.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsCurrent bool      `json:"isCurrent"`
}
