// File: internal/service/mocks_test.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storecraft/identity-service/internal/domain/models"
)

// --- repository mocks ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) RoleNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if r := args.Get(0); r != nil {
		return r.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, changedAt time.Time) error {
	return m.Called(ctx, userID, passwordHash, changedAt).Error(0)
}
func (m *MockUserRepository) SetEmailConfirmed(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockUserRepository) SetTwoFactorSecret(ctx context.Context, userID uuid.UUID, secret string) error {
	return m.Called(ctx, userID, secret).Error(0)
}
func (m *MockUserRepository) ActivateTwoFactor(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}
func (m *MockUserRepository) DisableTwoFactor(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type MockRefreshTokenRepository struct{ mock.Mock }

func (m *MockRefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}
func (m *MockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if t := args.Get(0); t != nil {
		return t.(*models.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockRefreshTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.RefreshToken, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockRefreshTokenRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*models.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if t := args.Get(0); t != nil {
		return t.([]*models.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockRefreshTokenRepository) Rotate(ctx context.Context, oldID uuid.UUID, revokedByIP string, newToken *models.RefreshToken) error {
	return m.Called(ctx, oldID, revokedByIP, newToken).Error(0)
}
func (m *MockRefreshTokenRepository) Revoke(ctx context.Context, id uuid.UUID, revokedByIP string) error {
	return m.Called(ctx, id, revokedByIP).Error(0)
}
func (m *MockRefreshTokenRepository) RevokeByIDForUser(ctx context.Context, id, userID uuid.UUID, revokedByIP string) (bool, error) {
	args := m.Called(ctx, id, userID, revokedByIP)
	return args.Bool(0), args.Error(1)
}
func (m *MockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, revokedByIP string, exceptID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, revokedByIP, exceptID)
	return args.Get(0).(int64), args.Error(1)
}

type MockBackupCodeRepository struct{ mock.Mock }

func (m *MockBackupCodeRepository) Replace(ctx context.Context, userID uuid.UUID, codeHashes []string) error {
	return m.Called(ctx, userID, codeHashes).Error(0)
}
func (m *MockBackupCodeRepository) Consume(ctx context.Context, userID uuid.UUID, codeHash string) (bool, error) {
	args := m.Called(ctx, userID, codeHash)
	return args.Bool(0), args.Error(1)
}
func (m *MockBackupCodeRepository) CountUnused(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockBackupCodeRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockVerificationCodeRepository struct{ mock.Mock }

func (m *MockVerificationCodeRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	return m.Called(ctx, code).Error(0)
}
func (m *MockVerificationCodeRepository) Consume(ctx context.Context, userID uuid.UUID, codeHash string, purpose models.VerificationPurpose) (bool, error) {
	args := m.Called(ctx, userID, codeHash, purpose)
	return args.Bool(0), args.Error(1)
}
func (m *MockVerificationCodeRepository) DeleteForUser(ctx context.Context, userID uuid.UUID, purpose models.VerificationPurpose) error {
	return m.Called(ctx, userID, purpose).Error(0)
}

type MockAuditLogRepository struct{ mock.Mock }

func (m *MockAuditLogRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	return m.Called(ctx, entry).Error(0)
}
func (m *MockAuditLogRepository) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.AuditLogEntry, error) {
	args := m.Called(ctx, userID, limit)
	if e := args.Get(0); e != nil {
		return e.([]*models.AuditLogEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

// --- service collaborator mocks ---

type MockAttemptStore struct{ mock.Mock }

func (m *MockAttemptStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAttemptStore) SetFlag(ctx context.Context, key string, ttl time.Duration) error {
	return m.Called(ctx, key, ttl).Error(0)
}
func (m *MockAttemptStore) FlagExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}
func (m *MockAttemptStore) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

type MockAttemptLimiter struct{ mock.Mock }

func (m *MockAttemptLimiter) IsBlocked(ctx context.Context, key string) bool {
	return m.Called(ctx, key).Bool(0)
}
func (m *MockAttemptLimiter) RecordFailure(ctx context.Context, key string) (int, bool) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Bool(1)
}
func (m *MockAttemptLimiter) Reset(ctx context.Context, key string) {
	m.Called(ctx, key)
}

type MockTokenManager struct{ mock.Mock }

func (m *MockTokenManager) IssueAccessToken(user *models.User, roles []string) (string, time.Time, error) {
	args := m.Called(user, roles)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}
func (m *MockTokenManager) IssueRefreshToken(ctx context.Context, userID uuid.UUID, ip, userAgent string) (string, *models.RefreshToken, error) {
	args := m.Called(ctx, userID, ip, userAgent)
	var token *models.RefreshToken
	if t := args.Get(1); t != nil {
		token = t.(*models.RefreshToken)
	}
	return args.String(0), token, args.Error(2)
}
func (m *MockTokenManager) Rotate(ctx context.Context, tokenValue, ip string) (*RotationResult, error) {
	args := m.Called(ctx, tokenValue, ip)
	if r := args.Get(0); r != nil {
		return r.(*RotationResult), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockTokenManager) Revoke(ctx context.Context, tokenValue, ip string) (*models.RefreshToken, error) {
	args := m.Called(ctx, tokenValue, ip)
	if t := args.Get(0); t != nil {
		return t.(*models.RefreshToken), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockTokenManager) RevokeAllForUser(ctx context.Context, userID uuid.UUID, ip string, exceptID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, ip, exceptID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSecondFactorVerifier struct{ mock.Mock }

func (m *MockSecondFactorVerifier) VerifyCode(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, userID, code)
	return args.Bool(0), args.Error(1)
}

type MockAuditSink struct{ mock.Mock }

func (m *MockAuditSink) Record(ctx context.Context, userID *uuid.UUID, action string, success bool, ip, userAgent, detail string) {
	m.Called(ctx, userID, action, success, ip, userAgent, detail)
}

type MockPasswordService struct{ mock.Mock }

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}
func (m *MockPasswordService) CheckPasswordHash(password, encodedHash string) (bool, error) {
	args := m.Called(password, encodedHash)
	return args.Bool(0), args.Error(1)
}

type MockTOTPService struct{ mock.Mock }

func (m *MockTOTPService) GenerateSecret(accountName string) (string, string, error) {
	args := m.Called(accountName)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockTOTPService) ValidateCode(secret, code string) bool {
	return m.Called(secret, code).Bool(0)
}

type MockNotificationSender struct{ mock.Mock }

func (m *MockNotificationSender) Send(ctx context.Context, to, template string, data any) error {
	return m.Called(ctx, to, template, data).Error(0)
}
