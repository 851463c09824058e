// File: internal/domain/repository/backup_code_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"
)

// BackupCodeRepository persists hashed single-use 2FA recovery codes.
type BackupCodeRepository interface {
	// Replace drops the user's existing codes and inserts the new batch
	// in one transaction, so there is never a mixed set.
	Replace(ctx context.Context, userID uuid.UUID, codeHashes []string) error

	// Consume marks one unused code used. The conditional update makes
	// the code single-use even under concurrent attempts: exactly one
	// caller sees true.
	Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error)

	CountUnused(ctx context.Context, userID uuid.UUID) (int, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
