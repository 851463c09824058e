// File: internal/domain/repository/postgres/refresh_token_postgres_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
)

// RefreshTokenRepositoryPostgres implements repository.RefreshTokenRepository
// for PostgreSQL.
type RefreshTokenRepositoryPostgres struct {
	db repository.DB
}

// NewRefreshTokenRepositoryPostgres creates a new instance.
func NewRefreshTokenRepositoryPostgres(db repository.DB) *RefreshTokenRepositoryPostgres {
	return &RefreshTokenRepositoryPostgres{db: db}
}

const refreshTokenColumns = `id, user_id, token_hash, expires_at, created_at, created_by_ip,
		user_agent, revoked_at, revoked_by_ip, replaced_by_token_id`

const insertRefreshTokenQuery = `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_by_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

// Create persists a new refresh token.
func (r *RefreshTokenRepositoryPostgres) Create(ctx context.Context, token *models.RefreshToken) error {
	_, err := r.db.Exec(ctx, insertRefreshTokenQuery,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedByIP, token.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}
	return nil
}

// FindByTokenHash retrieves a token in any state by the hash of its value.
func (r *RefreshTokenRepositoryPostgres) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE token_hash = $1`
	return r.scanToken(r.db.QueryRow(ctx, query, tokenHash))
}

// FindByID retrieves a token in any state by its row id.
func (r *RefreshTokenRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*models.RefreshToken, error) {
	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE id = $1`
	return r.scanToken(r.db.QueryRow(ctx, query, id))
}

func (r *RefreshTokenRepositoryPostgres) scanToken(row pgx.Row) (*models.RefreshToken, error) {
	token := &models.RefreshToken{}
	err := row.Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt,
		&token.CreatedByIP, &token.UserAgent, &token.RevokedAt, &token.RevokedByIP,
		&token.ReplacedByTokenID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to scan refresh token: %w", err)
	}
	return token, nil
}

// ListActiveByUser returns the user's unrevoked, unexpired tokens, newest
// first.
func (r *RefreshTokenRepositoryPostgres) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error) {
	query := `
		SELECT ` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active refresh tokens for user %s: %w", userID, err)
	}
	defer rows.Close()

	var tokens []*models.RefreshToken
	for rows.Next() {
		token := &models.RefreshToken{}
		err := rows.Scan(
			&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt,
			&token.CreatedByIP, &token.UserAgent, &token.RevokedAt, &token.RevokedByIP,
			&token.ReplacedByTokenID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh token row: %w", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating refresh tokens: %w", err)
	}
	return tokens, nil
}

// Rotate atomically replaces oldID with newToken: the new row is inserted
// and the old row is revoked with a lineage pointer to its successor. If
// the old row is no longer active the transaction rolls back, so a reused
// token can never mint a second successor.
func (r *RefreshTokenRepositoryPostgres) Rotate(ctx context.Context, oldID uuid.UUID, revokedByIP string, newToken *models.RefreshToken) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rotation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, insertRefreshTokenQuery,
		newToken.ID, newToken.UserID, newToken.TokenHash, newToken.ExpiresAt,
		newToken.CreatedByIP, newToken.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert successor token: %w", err)
	}

	revokeQuery := `
		UPDATE refresh_tokens
		SET revoked_at = NOW(), revoked_by_ip = $2, replaced_by_token_id = $3
		WHERE id = $1 AND revoked_at IS NULL
	`
	tag, err := tx.Exec(ctx, revokeQuery, oldID, revokedByIP, newToken.ID)
	if err != nil {
		return fmt.Errorf("failed to revoke rotated token %s: %w", oldID, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTokenRevoked
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}
	return nil
}

// Revoke marks one active token revoked.
func (r *RefreshTokenRepositoryPostgres) Revoke(ctx context.Context, id uuid.UUID, revokedByIP string) error {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW(), revoked_by_ip = $2
		WHERE id = $1 AND revoked_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, id, revokedByIP)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrTokenRevoked
	}
	return nil
}

// RevokeByIDForUser revokes one active token if it belongs to userID.
func (r *RefreshTokenRepositoryPostgres) RevokeByIDForUser(ctx context.Context, id, userID uuid.UUID, revokedByIP string) (bool, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW(), revoked_by_ip = $3
		WHERE id = $1 AND user_id = $2 AND revoked_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, id, userID, revokedByIP)
	if err != nil {
		return false, fmt.Errorf("failed to revoke session token %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// RevokeAllForUser revokes the user's active tokens, sparing exceptID when
// it is non-nil.
func (r *RefreshTokenRepositoryPostgres) RevokeAllForUser(ctx context.Context, userID uuid.UUID, revokedByIP string, exceptID *uuid.UUID) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = NOW(), revoked_by_ip = $2
		WHERE user_id = $1 AND revoked_at IS NULL AND ($3::uuid IS NULL OR id <> $3)
	`
	tag, err := r.db.Exec(ctx, query, userID, revokedByIP, exceptID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens for user %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepositoryPostgres)(nil)
