// File: internal/domain/repository/verification_code_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
)

// VerificationCodeRepository persists hashed email-confirmation and
// password-reset codes.
type VerificationCodeRepository interface {
	Create(ctx context.Context, code *models.VerificationCode) error

	// Consume marks an unused, unexpired code used; reports whether a
	// matching code existed.
	Consume(ctx context.Context, userID uuid.UUID, codeHash string, purpose models.VerificationPurpose) (bool, error)

	// DeleteForUser removes all of the user's codes for one purpose,
	// used before issuing a replacement.
	DeleteForUser(ctx context.Context, userID uuid.UUID, purpose models.VerificationPurpose) error
}
