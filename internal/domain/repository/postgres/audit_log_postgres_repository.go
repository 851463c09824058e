// File: internal/domain/repository/postgres/audit_log_postgres_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
)

// AuditLogRepositoryPostgres implements repository.AuditLogRepository for
// PostgreSQL. Rows are never updated or deleted.
type AuditLogRepositoryPostgres struct {
	db repository.DB
}

// NewAuditLogRepositoryPostgres creates a new instance.
func NewAuditLogRepositoryPostgres(db repository.DB) *AuditLogRepositoryPostgres {
	return &AuditLogRepositoryPostgres{db: db}
}

// Create appends one audit entry.
func (r *AuditLogRepositoryPostgres) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, success, ip_address, user_agent, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.Action, entry.Success,
		entry.IPAddress, entry.UserAgent, entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

// ListRecentByUser returns the user's newest entries, newest first.
func (r *AuditLogRepositoryPostgres) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuditLogEntry, error) {
	query := `
		SELECT id, user_id, action, success, ip_address, user_agent, detail, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		entry := &models.AuditLogEntry{}
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Action, &entry.Success,
			&entry.IPAddress, &entry.UserAgent, &entry.Detail, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating audit log: %w", err)
	}
	return entries, nil
}

var _ repository.AuditLogRepository = (*AuditLogRepositoryPostgres)(nil)
