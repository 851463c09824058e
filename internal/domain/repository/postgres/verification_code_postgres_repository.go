// File: internal/domain/repository/postgres/verification_code_postgres_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
)

// VerificationCodeRepositoryPostgres implements
// repository.VerificationCodeRepository for PostgreSQL.
type VerificationCodeRepositoryPostgres struct {
	db repository.DB
}

// NewVerificationCodeRepositoryPostgres creates a new instance.
func NewVerificationCodeRepositoryPostgres(db repository.DB) *VerificationCodeRepositoryPostgres {
	return &VerificationCodeRepositoryPostgres{db: db}
}

// Create persists a new verification code.
func (r *VerificationCodeRepositoryPostgres) Create(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO verification_codes (id, user_id, code_hash, purpose, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		code.ID, code.UserID, code.CodeHash, code.Purpose, code.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}
	return nil
}

// Consume marks an unused, unexpired code used; reports whether one matched.
func (r *VerificationCodeRepositoryPostgres) Consume(ctx context.Context, userID uuid.UUID, codeHash string, purpose models.VerificationPurpose) (bool, error) {
	query := `
		UPDATE verification_codes
		SET used_at = NOW()
		WHERE user_id = $1 AND code_hash = $2 AND purpose = $3
			AND used_at IS NULL AND expires_at > NOW()
	`
	tag, err := r.db.Exec(ctx, query, userID, codeHash, purpose)
	if err != nil {
		return false, fmt.Errorf("failed to consume verification code for user %s: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteForUser removes the user's codes for one purpose.
func (r *VerificationCodeRepositoryPostgres) DeleteForUser(ctx context.Context, userID uuid.UUID, purpose models.VerificationPurpose) error {
	query := `DELETE FROM verification_codes WHERE user_id = $1 AND purpose = $2`
	if _, err := r.db.Exec(ctx, query, userID, purpose); err != nil {
		return fmt.Errorf("failed to delete verification codes for user %s: %w", userID, err)
	}
	return nil
}

var _ repository.VerificationCodeRepository = (*VerificationCodeRepositoryPostgres)(nil)
