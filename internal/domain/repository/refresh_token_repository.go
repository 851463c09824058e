// File: internal/domain/repository/refresh_token_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
)

// RefreshTokenRepository persists the opaque refresh tokens. All
// revocation paths are conditional single statements (WHERE revoked_at IS
// NULL), so a token can lose its active status exactly once.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.RefreshToken, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error)

	// Rotate inserts newToken and revokes the old row, linking it to its
	// successor, inside one transaction. If the old row was already
	// revoked or missing the transaction rolls back and ErrTokenRevoked
	// is returned, leaving no successor behind.
	Rotate(ctx context.Context, oldID uuid.UUID, revokedByIP string, newToken *models.RefreshToken) error

	// Revoke marks one active token revoked. Returns ErrTokenRevoked if
	// the row exists but is no longer active.
	Revoke(ctx context.Context, id uuid.UUID, revokedByIP string) error

	// RevokeByIDForUser revokes one active token only if it belongs to
	// userID; reports whether a row was affected.
	RevokeByIDForUser(ctx context.Context, id, userID uuid.UUID, revokedByIP string) (bool, error)

	// RevokeAllForUser revokes every active token of the user, optionally
	// sparing one (the caller's current session). Returns the number of
	// tokens revoked.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, revokedByIP string, exceptID *uuid.UUID) (int64, error)
}
