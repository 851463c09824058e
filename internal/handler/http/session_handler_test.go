// File: internal/handler/http/session_handler_test.go
package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storecraft/identity-service/internal/domain/models"
)

func newSessionRouter(userID uuid.UUID, sessions *MockSessionManager, activity *MockActivityProvider) *gin.Engine {
	h := NewSessionHandler(sessions, activity)
	router := gin.New()
	authed := router.Group("/v1/identity", asUser(userID))
	authed.GET("/sessions", h.List)
	authed.DELETE("/sessions/all", h.RevokeAll)
	authed.DELETE("/sessions/:id", h.RevokeOne)
	authed.GET("/activity", h.Activity)
	return router
}

func TestSessionHandler_List(t *testing.T) {
	userID := uuid.New()
	sessions := &MockSessionManager{}
	router := newSessionRouter(userID, sessions, &MockActivityProvider{})

	list := []models.Session{
		{ID: uuid.New(), Device: "Desktop", Browser: "Chrome 126", IPAddress: "203.0.113.9", IsCurrent: true},
		{ID: uuid.New(), Device: "Mobile (iPhone)", Browser: "Safari", IPAddress: "198.51.100.7"},
	}
	sessions.On("ListActive", mock.Anything, userID, "current-token").Return(list, nil).Once()

	rec := performJSON(t, router, http.MethodGet, "/v1/identity/sessions", nil,
		map[string]string{"Refresh-Token": "current-token"})

	assert.Equal(t, http.StatusOK, rec.Code)
	sessions.AssertExpectations(t)
}

func TestSessionHandler_RevokeOne(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.New()
	sessions := &MockSessionManager{}
	router := newSessionRouter(userID, sessions, &MockActivityProvider{})

	t.Run("revoked", func(t *testing.T) {
		sessions.On("RevokeOne", mock.Anything, userID, sessionID, mock.Anything, mock.Anything).
			Return(true, nil).Once()

		rec := performJSON(t, router, http.MethodDelete, "/v1/identity/sessions/"+sessionID.String(), nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		sessions.On("RevokeOne", mock.Anything, userID, sessionID, mock.Anything, mock.Anything).
			Return(false, nil).Once()

		rec := performJSON(t, router, http.MethodDelete, "/v1/identity/sessions/"+sessionID.String(), nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := performJSON(t, router, http.MethodDelete, "/v1/identity/sessions/not-a-uuid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionHandler_RevokeAll(t *testing.T) {
	userID := uuid.New()
	sessions := &MockSessionManager{}
	router := newSessionRouter(userID, sessions, &MockActivityProvider{})

	sessions.On("RevokeAllExceptCurrent", mock.Anything, userID, "current-token", mock.Anything, mock.Anything).
		Return(int64(2), nil).Once()

	rec := performJSON(t, router, http.MethodDelete, "/v1/identity/sessions/all", nil,
		map[string]string{"Refresh-Token": "current-token"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), decodeBody(t, rec)["revoked"])
}

func TestSessionHandler_Activity(t *testing.T) {
	userID := uuid.New()
	activity := &MockActivityProvider{}
	router := newSessionRouter(userID, &MockSessionManager{}, activity)

	detail := "second factor required"
	entries := []*models.AuditLogEntry{
		{
			ID:        uuid.New(),
			UserID:    &userID,
			Action:    models.AuditLogin,
			Success:   true,
			IPAddress: "203.0.113.9",
			UserAgent: "test-agent",
			Detail:    &detail,
			CreatedAt: time.Now(),
		},
	}
	activity.On("RecentActivity", mock.Anything, userID, 10).Return(entries, nil).Once()

	rec := performJSON(t, router, http.MethodGet, "/v1/identity/activity?limit=10", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	activity.AssertExpectations(t)
}

func TestSessionHandler_Activity_InvalidLimit(t *testing.T) {
	userID := uuid.New()
	activity := &MockActivityProvider{}
	router := newSessionRouter(userID, &MockSessionManager{}, activity)

	rec := performJSON(t, router, http.MethodGet, "/v1/identity/activity?limit=ten", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	activity.AssertNotCalled(t, "RecentActivity", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionHandler_List_Unauthenticated(t *testing.T) {
	h := NewSessionHandler(&MockSessionManager{}, &MockActivityProvider{})
	router := gin.New()
	router.GET("/v1/identity/sessions", h.List)

	rec := performJSON(t, router, http.MethodGet, "/v1/identity/sessions", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
