// File: internal/handler/http/mocks_test.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/handler/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthOrchestrator struct{ mock.Mock }

func (m *MockAuthOrchestrator) Login(ctx context.Context, email, password, ip, userAgent string) (*models.AuthResult, int, error) {
	args := m.Called(ctx, email, password, ip, userAgent)
	var result *models.AuthResult
	if args.Get(0) != nil {
		result = args.Get(0).(*models.AuthResult)
	}
	return result, args.Int(1), args.Error(2)
}

func (m *MockAuthOrchestrator) LoginTwoFactor(ctx context.Context, userID uuid.UUID, code, ip, userAgent string) (*models.AuthResult, error) {
	args := m.Called(ctx, userID, code, ip, userAgent)
	var result *models.AuthResult
	if args.Get(0) != nil {
		result = args.Get(0).(*models.AuthResult)
	}
	return result, args.Error(1)
}

func (m *MockAuthOrchestrator) Refresh(ctx context.Context, tokenValue, ip, userAgent string) (*models.AuthResult, error) {
	args := m.Called(ctx, tokenValue, ip, userAgent)
	var result *models.AuthResult
	if args.Get(0) != nil {
		result = args.Get(0).(*models.AuthResult)
	}
	return result, args.Error(1)
}

func (m *MockAuthOrchestrator) RevokeToken(ctx context.Context, tokenValue, ip, userAgent string) error {
	return m.Called(ctx, tokenValue, ip, userAgent).Error(0)
}

func (m *MockAuthOrchestrator) Register(ctx context.Context, req models.RegisterRequest, ip, userAgent string) error {
	return m.Called(ctx, req, ip, userAgent).Error(0)
}

func (m *MockAuthOrchestrator) ConfirmEmail(ctx context.Context, email, code, ip, userAgent string) error {
	return m.Called(ctx, email, code, ip, userAgent).Error(0)
}

func (m *MockAuthOrchestrator) ResendConfirmation(ctx context.Context, email, ip, userAgent string) error {
	return m.Called(ctx, email, ip, userAgent).Error(0)
}

func (m *MockAuthOrchestrator) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, ip, userAgent string) error {
	return m.Called(ctx, userID, currentPassword, newPassword, ip, userAgent).Error(0)
}

func (m *MockAuthOrchestrator) ForgotPassword(ctx context.Context, email, ip, userAgent string) error {
	return m.Called(ctx, email, ip, userAgent).Error(0)
}

func (m *MockAuthOrchestrator) ResetPassword(ctx context.Context, email, code, newPassword, ip, userAgent string) error {
	return m.Called(ctx, email, code, newPassword, ip, userAgent).Error(0)
}

type MockSessionManager struct{ mock.Mock }

func (m *MockSessionManager) ListActive(ctx context.Context, userID uuid.UUID, currentTokenValue string) ([]models.Session, error) {
	args := m.Called(ctx, userID, currentTokenValue)
	var sessions []models.Session
	if args.Get(0) != nil {
		sessions = args.Get(0).([]models.Session)
	}
	return sessions, args.Error(1)
}

func (m *MockSessionManager) RevokeOne(ctx context.Context, userID, sessionID uuid.UUID, ip, userAgent string) (bool, error) {
	args := m.Called(ctx, userID, sessionID, ip, userAgent)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionManager) RevokeAllExceptCurrent(ctx context.Context, userID uuid.UUID, currentTokenValue, ip, userAgent string) (int64, error) {
	args := m.Called(ctx, userID, currentTokenValue, ip, userAgent)
	return args.Get(0).(int64), args.Error(1)
}

type MockActivityProvider struct{ mock.Mock }

func (m *MockActivityProvider) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuditLogEntry, error) {
	args := m.Called(ctx, userID, limit)
	var entries []*models.AuditLogEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]*models.AuditLogEntry)
	}
	return entries, args.Error(1)
}

type MockTwoFactorManager struct{ mock.Mock }

func (m *MockTwoFactorManager) Setup(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*models.TwoFactorSetup, error) {
	args := m.Called(ctx, userID, ip, userAgent)
	var setup *models.TwoFactorSetup
	if args.Get(0) != nil {
		setup = args.Get(0).(*models.TwoFactorSetup)
	}
	return setup, args.Error(1)
}

func (m *MockTwoFactorManager) ConfirmSetup(ctx context.Context, userID uuid.UUID, code, ip, userAgent string) error {
	return m.Called(ctx, userID, code, ip, userAgent).Error(0)
}

func (m *MockTwoFactorManager) Disable(ctx context.Context, userID uuid.UUID, password, code, ip, userAgent string) error {
	return m.Called(ctx, userID, password, code, ip, userAgent).Error(0)
}

func (m *MockTwoFactorManager) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, password, code, ip, userAgent string) ([]string, error) {
	args := m.Called(ctx, userID, password, code, ip, userAgent)
	var codes []string
	if args.Get(0) != nil {
		codes = args.Get(0).([]string)
	}
	return codes, args.Error(1)
}

func (m *MockTwoFactorManager) BackupCodeStatus(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// asUser injects the authenticated caller's id the way RequireAuth would.
func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-agent")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
