// File: internal/app/seed.go
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/config"
	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
)

// seedTestUser creates the configured test account at startup. It only
// runs when seeding is explicitly enabled, refuses to run in production,
// and is a no-op when the account already exists.
func seedTestUser(ctx context.Context, cfg *config.Config, users repository.UserRepository, passwords security.PasswordService, logger *zap.Logger) error {
	if !cfg.Seed.Enabled {
		return nil
	}
	if cfg.IsProduction() {
		return errors.New("test-user seeding must not be enabled in production")
	}
	if cfg.Seed.UserEmail == "" || cfg.Seed.UserPassword == "" {
		return errors.New("seed.user_email and seed.user_password must be set when seeding is enabled")
	}

	if _, err := users.FindByEmail(ctx, cfg.Seed.UserEmail); err == nil {
		logger.Debug("seed user already exists", zap.String("email", cfg.Seed.UserEmail))
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return fmt.Errorf("failed to check for seed user: %w", err)
	}

	hash, err := passwords.HashPassword(cfg.Seed.UserPassword)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := &models.User{
		ID:             uuid.New(),
		Email:          cfg.Seed.UserEmail,
		FirstName:      "Test",
		LastName:       "User",
		PasswordHash:   hash,
		EmailConfirmed: true,
	}
	if err := users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create seed user: %w", err)
	}

	logger.Info("seeded test user", zap.String("email", cfg.Seed.UserEmail))
	return nil
}
