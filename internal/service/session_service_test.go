// File: internal/service/session_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
)

func newSessionFixture() (*MockRefreshTokenRepository, *MockAuditSink, *SessionService) {
	repo := &MockRefreshTokenRepository{}
	audit := &MockAuditSink{}
	audit.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
	return repo, audit, NewSessionService(repo, audit, zap.NewNop())
}

func TestSessionService_ListActive_MarksCurrent(t *testing.T) {
	repo, _, svc := newSessionFixture()
	userID := uuid.New()
	currentValue := "current-token-value"

	tokens := []*models.RefreshToken{
		{
			ID:          uuid.New(),
			UserID:      userID,
			TokenHash:   security.HashToken(currentValue),
			CreatedByIP: "203.0.113.9",
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
		{
			ID:          uuid.New(),
			UserID:      userID,
			TokenHash:   security.HashToken("another-token"),
			CreatedByIP: "198.51.100.7",
			UserAgent:   "curl/8.0",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
	}
	repo.On("ListActiveByUser", mock.Anything, userID).Return(tokens, nil).Once()

	sessions, err := svc.ListActive(context.Background(), userID, currentValue)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.True(t, sessions[0].IsCurrent)
	assert.False(t, sessions[1].IsCurrent)
	assert.Contains(t, sessions[0].Browser, "Chrome")
	assert.Equal(t, tokens[0].ID, sessions[0].ID)
	assert.Equal(t, "203.0.113.9", sessions[0].IPAddress)
}

func TestSessionService_ListActive_WithoutCurrentToken(t *testing.T) {
	repo, _, svc := newSessionFixture()
	userID := uuid.New()

	tokens := []*models.RefreshToken{
		{ID: uuid.New(), UserID: userID, TokenHash: security.HashToken("x"), ExpiresAt: time.Now().Add(time.Hour)},
	}
	repo.On("ListActiveByUser", mock.Anything, userID).Return(tokens, nil).Once()

	sessions, err := svc.ListActive(context.Background(), userID, "")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].IsCurrent)
}

func TestSessionService_RevokeOne(t *testing.T) {
	repo, _, svc := newSessionFixture()
	userID := uuid.New()
	sessionID := uuid.New()

	repo.On("RevokeByIDForUser", mock.Anything, sessionID, userID, "203.0.113.9").Return(true, nil).Once()

	revoked, err := svc.RevokeOne(context.Background(), userID, sessionID, "203.0.113.9", "agent")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestSessionService_RevokeOne_ForeignSessionIsNoOp(t *testing.T) {
	repo, _, svc := newSessionFixture()
	userID := uuid.New()
	sessionID := uuid.New()

	repo.On("RevokeByIDForUser", mock.Anything, sessionID, userID, "203.0.113.9").Return(false, nil).Once()

	revoked, err := svc.RevokeOne(context.Background(), userID, sessionID, "203.0.113.9", "agent")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSessionService_RevokeAllExceptCurrent(t *testing.T) {
	repo, _, svc := newSessionFixture()
	userID := uuid.New()
	currentValue := "current-token-value"
	current := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: security.HashToken(currentValue),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	repo.On("FindByTokenHash", mock.Anything, security.HashToken(currentValue)).Return(current, nil).Once()
	repo.On("RevokeAllForUser", mock.Anything, userID, "203.0.113.9", &current.ID).Return(int64(2), nil).Once()

	count, err := svc.RevokeAllExceptCurrent(context.Background(), userID, currentValue, "203.0.113.9", "agent")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	repo.AssertExpectations(t)
}

func TestSessionService_RevokeAllExceptCurrent_ForeignTokenNotSpared(t *testing.T) {
	repo, _, svc := newSessionFixture()
	userID := uuid.New()
	foreign := &models.RefreshToken{
		ID:        uuid.New(),
		UserID:    uuid.New(), // someone else's token
		TokenHash: security.HashToken("foreign"),
	}

	repo.On("FindByTokenHash", mock.Anything, security.HashToken("foreign")).Return(foreign, nil).Once()
	repo.On("RevokeAllForUser", mock.Anything, userID, "203.0.113.9", (*uuid.UUID)(nil)).Return(int64(3), nil).Once()

	count, err := svc.RevokeAllExceptCurrent(context.Background(), userID, "foreign", "203.0.113.9", "agent")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	repo.AssertExpectations(t)
}
