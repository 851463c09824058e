// File: internal/handler/http/session_handler.go
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/handler/http/middleware"
)

// refreshTokenHeader optionally carries the caller's refresh token so the
// session list can mark the current session.
const refreshTokenHeader = "Refresh-Token"

// SessionManager is the session surface the handler needs.
type SessionManager interface {
	ListActive(ctx context.Context, userID uuid.UUID, currentTokenValue string) ([]models.Session, error)
	RevokeOne(ctx context.Context, userID, sessionID uuid.UUID, ip, userAgent string) (bool, error)
	RevokeAllExceptCurrent(ctx context.Context, userID uuid.UUID, currentTokenValue, ip, userAgent string) (int64, error)
}

// ActivityProvider serves the account activity feed.
type ActivityProvider interface {
	RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuditLogEntry, error)
}

// SessionHandler serves session listing/revocation and account activity.
type SessionHandler struct {
	sessions SessionManager
	activity ActivityProvider
}

// NewSessionHandler creates a new instance.
func NewSessionHandler(sessions SessionManager, activity ActivityProvider) *SessionHandler {
	return &SessionHandler{sessions: sessions, activity: activity}
}

// List handles GET /v1/identity/sessions.
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	sessions, err := h.sessions.ListActive(c.Request.Context(), userID, c.GetHeader(refreshTokenHeader))
	if err != nil {
		respondInternalError(c)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// RevokeOne handles DELETE /v1/identity/sessions/:id.
func (h *SessionHandler) RevokeOne(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid session id.")
		return
	}

	revoked, err := h.sessions.RevokeOne(c.Request.Context(), userID, sessionID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondInternalError(c)
		return
	}
	if !revoked {
		respondMessage(c, http.StatusNotFound, "Session not found.")
		return
	}
	respondMessage(c, http.StatusOK, "Session revoked.")
}

// RevokeAll handles DELETE /v1/identity/sessions/all.
func (h *SessionHandler) RevokeAll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	count, err := h.sessions.RevokeAllExceptCurrent(c.Request.Context(), userID, c.GetHeader(refreshTokenHeader), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondInternalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": count})
}

// activityEntry is the JSON shape of one audit event.
type activityEntry struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Activity handles GET /v1/identity/activity?limit=N.
func (h *SessionHandler) Activity(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "Invalid limit.")
			return
		}
		limit = parsed
	}

	entries, err := h.activity.RecentActivity(c.Request.Context(), userID, limit)
	if err != nil {
		respondInternalError(c)
		return
	}

	out := make([]activityEntry, 0, len(entries))
	for _, e := range entries {
		entry := activityEntry{
			ID:        e.ID,
			Action:    e.Action,
			Success:   e.Success,
			IPAddress: e.IPAddress,
			UserAgent: e.UserAgent,
			CreatedAt: e.CreatedAt,
		}
		if e.Detail != nil {
			entry.Detail = *e.Detail
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}
