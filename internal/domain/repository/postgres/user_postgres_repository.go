// File: internal/domain/repository/postgres/user_postgres_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
)

// UserRepositoryPostgres implements repository.UserRepository for PostgreSQL.
type UserRepositoryPostgres struct {
	db repository.DB
}

// NewUserRepositoryPostgres creates a new instance.
func NewUserRepositoryPostgres(db repository.DB) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{db: db}
}

const userColumns = `id, email, first_name, last_name, password_hash, email_confirmed,
		two_factor_enabled, two_factor_secret, password_changed_at, created_at, updated_at`

// Create persists a new account.
func (r *UserRepositoryPostgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, password_hash, email_confirmed,
			two_factor_enabled, two_factor_secret, password_changed_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash,
		user.EmailConfirmed, user.TwoFactorEnabled, user.TwoFactorSecret, user.PasswordChangedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation (email)
			return fmt.Errorf("email '%s' already registered: %w", user.Email, domainErrors.ErrEmailExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByID retrieves an account by id.
func (r *UserRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// FindByEmail retrieves an account by email, case-insensitively.
func (r *UserRepositoryPostgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepositoryPostgres) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.PasswordHash,
		&user.EmailConfirmed, &user.TwoFactorEnabled, &user.TwoFactorSecret,
		&user.PasswordChangedAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// RoleNames returns the names of the roles assigned to the user.
func (r *UserRepositoryPostgres) RoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles for user %s: %w", userID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan role name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating roles: %w", err)
	}
	return names, nil
}

// UpdatePassword stores a new password hash and its change timestamp.
func (r *UserRepositoryPostgres) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID, passwordHash, changedAt)
	if err != nil {
		return fmt.Errorf("failed to update password for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// SetEmailConfirmed marks the account's email address as confirmed.
func (r *UserRepositoryPostgres) SetEmailConfirmed(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET email_confirmed = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to confirm email for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// SetTwoFactorSecret stores a pending authenticator secret. The enabled
// flag is untouched; ActivateTwoFactor flips it after verification.
func (r *UserRepositoryPostgres) SetTwoFactorSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	query := `UPDATE users SET two_factor_secret = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, userID, secret)
	if err != nil {
		return fmt.Errorf("failed to set two-factor secret for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// ActivateTwoFactor enables 2FA for a user that holds a pending secret.
func (r *UserRepositoryPostgres) ActivateTwoFactor(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET two_factor_enabled = TRUE, updated_at = NOW()
		WHERE id = $1 AND two_factor_secret IS NOT NULL
	`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to activate two-factor for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.Err2FANotInitiated
	}
	return nil
}

// DisableTwoFactor clears the secret and the enabled flag and deletes the
// user's backup codes, all in one transaction.
func (r *UserRepositoryPostgres) DisableTwoFactor(ctx context.Context, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin two-factor disable transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE users
		SET two_factor_enabled = FALSE, two_factor_secret = NULL, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := tx.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to disable two-factor for user %s: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete backup codes for user %s: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit two-factor disable: %w", err)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepositoryPostgres)(nil)
