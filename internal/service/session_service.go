// File: internal/service/session_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
	"github.com/storecraft/identity-service/internal/utils/device"
)

// SessionService presents the user's active refresh tokens as sessions
// and lets the user revoke them. Session ids are token row ids; the
// token values never leave the token layer.
type SessionService struct {
	refreshTokens repository.RefreshTokenRepository
	audit         AuditSink
	logger        *zap.Logger
}

// NewSessionService creates a new instance.
func NewSessionService(refreshTokens repository.RefreshTokenRepository, audit AuditSink, logger *zap.Logger) *SessionService {
	return &SessionService{refreshTokens: refreshTokens, audit: audit, logger: logger}
}

// ListActive returns the user's live sessions, newest first. When
// currentTokenValue is the caller's own refresh token, the matching
// session is flagged IsCurrent.
func (s *SessionService) ListActive(ctx context.Context, userID uuid.UUID, currentTokenValue string) ([]models.Session, error) {
	tokens, err := s.refreshTokens.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentHash := ""
	if currentTokenValue != "" {
		currentHash = security.HashToken(currentTokenValue)
	}

	sessions := make([]models.Session, 0, len(tokens))
	for _, t := range tokens {
		info := device.Parse(t.UserAgent)
		sessions = append(sessions, models.Session{
			ID:        t.ID,
			Device:    info.Device,
			Browser:   info.Browser,
			IPAddress: t.CreatedByIP,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
			IsCurrent: currentHash != "" && t.TokenHash == currentHash,
		})
	}
	return sessions, nil
}

// RevokeOne revokes a single session if it belongs to the user and is
// still active. Reports whether anything was revoked; a foreign or stale
// session id is not an error, just a no-op.
func (s *SessionService) RevokeOne(ctx context.Context, userID, sessionID uuid.UUID, ip, userAgent string) (bool, error) {
	revoked, err := s.refreshTokens.RevokeByIDForUser(ctx, sessionID, userID, ip)
	if err != nil {
		return false, err
	}
	if revoked {
		s.audit.Record(ctx, &userID, models.AuditRevokeSession, true, ip, userAgent,
			fmt.Sprintf("session %s revoked", sessionID))
	} else {
		s.audit.Record(ctx, &userID, models.AuditRevokeSession, false, ip, userAgent,
			fmt.Sprintf("session %s not found or already revoked", sessionID))
	}
	return revoked, nil
}

// RevokeAllExceptCurrent revokes every active session of the user except
// the one behind currentTokenValue (when it is the user's own). Returns
// the number of sessions revoked.
func (s *SessionService) RevokeAllExceptCurrent(ctx context.Context, userID uuid.UUID, currentTokenValue, ip, userAgent string) (int64, error) {
	var exceptID *uuid.UUID
	if currentTokenValue != "" {
		current, err := s.refreshTokens.FindByTokenHash(ctx, security.HashToken(currentTokenValue))
		if err == nil && current.UserID == userID {
			exceptID = &current.ID
		}
	}

	count, err := s.refreshTokens.RevokeAllForUser(ctx, userID, ip, exceptID)
	if err != nil {
		return 0, err
	}
	s.audit.Record(ctx, &userID, models.AuditRevokeAllSessions, true, ip, userAgent,
		fmt.Sprintf("%d sessions revoked", count))
	return count, nil
}
