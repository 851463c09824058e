// File: internal/service/audit_recorder.go
package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
	"github.com/storecraft/identity-service/internal/utils/metrics"
)

// AuditSink is the write side of the audit trail as seen by the other
// services. Recording never fails the caller.
type AuditSink interface {
	Record(ctx context.Context, userID *uuid.UUID, action string, success bool, ip, userAgent, detail string)
}

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// AuditRecorder appends security events and serves the activity feed.
type AuditRecorder struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

// NewAuditRecorder creates a new instance.
func NewAuditRecorder(repo repository.AuditLogRepository, logger *zap.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, logger: logger}
}

// Record appends one audit entry. A storage failure is logged and counted
// but never propagated: the security-relevant operation that triggered the
// entry must not fail because bookkeeping did.
func (r *AuditRecorder) Record(ctx context.Context, userID *uuid.UUID, action string, success bool, ip, userAgent, detail string) {
	entry := &models.AuditLogEntry{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Success:   success,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if detail != "" {
		entry.Detail = &detail
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		metrics.AuditWriteFailures.Inc()
		r.logger.Error("failed to write audit log entry",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// RecentActivity returns the user's newest audit entries. limit defaults
// to 20 and is clamped to 100.
func (r *AuditRecorder) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	return r.repo.ListRecentByUser(ctx, userID, limit)
}

var _ AuditSink = (*AuditRecorder)(nil)
