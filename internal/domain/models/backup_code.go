// File: internal/domain/models/backup_code.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// BackupCode is a single-use 2FA recovery code, stored hashed.
type BackupCode struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CodeHash  string
	UsedAt    *time.Time
	CreatedAt time.Time
}
