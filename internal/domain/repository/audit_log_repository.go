// File: internal/domain/repository/audit_log_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
)

// AuditLogRepository is the append-only security event store.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuditLogEntry, error)
}
