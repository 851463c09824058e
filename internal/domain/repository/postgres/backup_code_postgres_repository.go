// File: internal/domain/repository/postgres/backup_code_postgres_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/repository"
)

// BackupCodeRepositoryPostgres implements repository.BackupCodeRepository
// for PostgreSQL.
type BackupCodeRepositoryPostgres struct {
	db repository.DB
}

// NewBackupCodeRepositoryPostgres creates a new instance.
func NewBackupCodeRepositoryPostgres(db repository.DB) *BackupCodeRepositoryPostgres {
	return &BackupCodeRepositoryPostgres{db: db}
}

// Replace swaps the user's backup codes for a new batch in one transaction.
func (r *BackupCodeRepositoryPostgres) Replace(ctx context.Context, userID uuid.UUID, codeHashes []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin backup code replacement: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete old backup codes for user %s: %w", userID, err)
	}

	insertQuery := `INSERT INTO backup_codes (id, user_id, code_hash) VALUES ($1, $2, $3)`
	for _, hash := range codeHashes {
		if _, err := tx.Exec(ctx, insertQuery, uuid.New(), userID, hash); err != nil {
			return fmt.Errorf("failed to insert backup code for user %s: %w", userID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit backup code replacement: %w", err)
	}
	return nil
}

// Consume marks one unused code used. The WHERE clause makes this safe
// under concurrency: only one caller can flip used_at.
func (r *BackupCodeRepositoryPostgres) Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error) {
	query := `
		UPDATE backup_codes
		SET used_at = NOW()
		WHERE user_id = $1 AND code_hash = $2 AND used_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, userID, codeHash)
	if err != nil {
		return false, fmt.Errorf("failed to consume backup code for user %s: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountUnused returns how many codes the user has left.
func (r *BackupCodeRepositoryPostgres) CountUnused(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM backup_codes WHERE user_id = $1 AND used_at IS NULL`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count backup codes for user %s: %w", userID, err)
	}
	return count, nil
}

// DeleteAllForUser removes every code of the user.
func (r *BackupCodeRepositoryPostgres) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM backup_codes WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete backup codes for user %s: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}

var _ repository.BackupCodeRepository = (*BackupCodeRepositoryPostgres)(nil)
