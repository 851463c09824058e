// File: internal/domain/repository/user_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
)

// UserRepository persists accounts and their role assignments.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	RoleNames(ctx context.Context, userID uuid.UUID) ([]string, error)

	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, changedAt time.Time) error
	SetEmailConfirmed(ctx context.Context, userID uuid.UUID) error

	// SetTwoFactorSecret stores a pending secret without flipping the
	// enabled flag; ActivateTwoFactor flips it once the secret is proven.
	// DisableTwoFactor drops the secret, the flag and every backup code
	// in one transaction.
	SetTwoFactorSecret(ctx context.Context, userID uuid.UUID, secret string) error
	ActivateTwoFactor(ctx context.Context, userID uuid.UUID) error
	DisableTwoFactor(ctx context.Context, userID uuid.UUID) error
}
