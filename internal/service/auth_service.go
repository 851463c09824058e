// File: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
	"github.com/storecraft/identity-service/internal/infrastructure/notification"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
	"github.com/storecraft/identity-service/internal/utils/device"
	"github.com/storecraft/identity-service/internal/utils/metrics"
)

// verificationCodeTTL bounds email-confirmation and password-reset codes.
const verificationCodeTTL = 24 * time.Hour

// notifyTimeout bounds the fire-and-forget notification calls, which run
// detached from the request context.
const notifyTimeout = 10 * time.Second

// AuthService orchestrates authentication: the login state machine, 2FA
// completion, token refresh and the account lifecycle flows around them.
type AuthService struct {
	users             repository.UserRepository
	verificationCodes repository.VerificationCodeRepository
	passwords         security.PasswordService
	lockout           AttemptLimiter
	tokens            TokenManager
	secondFactor      SecondFactorVerifier
	audit             AuditSink
	notifier          notification.Sender
	logger            *zap.Logger
}

// NewAuthService creates a new instance.
func NewAuthService(
	users repository.UserRepository,
	verificationCodes repository.VerificationCodeRepository,
	passwords security.PasswordService,
	lockout AttemptLimiter,
	tokens TokenManager,
	secondFactor SecondFactorVerifier,
	audit AuditSink,
	notifier notification.Sender,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:             users,
		verificationCodes: verificationCodes,
		passwords:         passwords,
		lockout:           lockout,
		tokens:            tokens,
		secondFactor:      secondFactor,
		audit:             audit,
		notifier:          notifier,
		logger:            logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login runs the password step of authentication. attemptsRemaining is
// meaningful only alongside ErrInvalidCredentials. A result with
// Requires2FA set carries no tokens; the client must complete the second
// factor via LoginTwoFactor.
func (s *AuthService) Login(ctx context.Context, email, password, ip, userAgent string) (*models.AuthResult, int, error) {
	key := normalizeEmail(email)

	if s.lockout.IsBlocked(ctx, key) {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		return nil, 0, domainErrors.ErrAccountLocked
	}

	user, err := s.users.FindByEmail(ctx, key)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Unknown email takes the same path as a wrong password.
			remaining, failErr := s.failLogin(ctx, nil, key, ip, userAgent, "unknown email")
			return nil, remaining, failErr
		}
		s.logger.Error("login: user lookup failed", zap.Error(err))
		return nil, 0, domainErrors.ErrInternal
	}

	match, err := s.passwords.CheckPasswordHash(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("login: password verification failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, 0, domainErrors.ErrInternal
	}
	if !match {
		remaining, failErr := s.failLogin(ctx, &user.ID, key, ip, userAgent, "invalid password")
		return nil, remaining, failErr
	}

	s.lockout.Reset(ctx, key)

	if user.TwoFactorEnabled {
		metrics.LoginAttempts.WithLabelValues("two_factor_required").Inc()
		s.audit.Record(ctx, &user.ID, models.AuditLogin, true, ip, userAgent, "password accepted, second factor required")
		return &models.AuthResult{Requires2FA: true, UserID: user.ID.String()}, 0, nil
	}

	result, err := s.completeLogin(ctx, user, ip, userAgent, models.AuditLogin)
	if err != nil {
		return nil, 0, err
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return result, 0, nil
}

func (s *AuthService) failLogin(ctx context.Context, userID *uuid.UUID, key, ip, userAgent, detail string) (int, error) {
	metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
	remaining, nowBlocked := s.lockout.RecordFailure(ctx, key)
	s.audit.Record(ctx, userID, models.AuditLogin, false, ip, userAgent, detail)
	if nowBlocked {
		return 0, domainErrors.ErrAccountLocked
	}
	return remaining, domainErrors.ErrInvalidCredentials
}

// LoginTwoFactor completes a login that required a second factor. The
// account id comes from the first step's response; failed code checks
// feed the same lockout guard, keyed on the account id.
func (s *AuthService) LoginTwoFactor(ctx context.Context, userID uuid.UUID, code, ip, userAgent string) (*models.AuthResult, error) {
	key := "2fa:" + userID.String()

	if s.lockout.IsBlocked(ctx, key) {
		return nil, domainErrors.ErrAccountLocked
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, s.failTwoFactor(ctx, nil, key, ip, userAgent, "unknown account")
		}
		s.logger.Error("2fa login: user lookup failed", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	ok, err := s.secondFactor.VerifyCode(ctx, user.ID, code)
	if err != nil {
		if errors.Is(err, domainErrors.Err2FANotEnabled) {
			return nil, s.failTwoFactor(ctx, &user.ID, key, ip, userAgent, "two-factor not enabled")
		}
		s.logger.Error("2fa login: code verification failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}
	if !ok {
		return nil, s.failTwoFactor(ctx, &user.ID, key, ip, userAgent, "invalid code")
	}

	s.lockout.Reset(ctx, key)
	return s.completeLogin(ctx, user, ip, userAgent, models.Audit2FAAuthentication)
}

func (s *AuthService) failTwoFactor(ctx context.Context, userID *uuid.UUID, key, ip, userAgent, detail string) error {
	_, nowBlocked := s.lockout.RecordFailure(ctx, key)
	s.audit.Record(ctx, userID, models.Audit2FAAuthentication, false, ip, userAgent, detail)
	if nowBlocked {
		return domainErrors.ErrAccountLocked
	}
	return domainErrors.ErrInvalid2FACode
}

func (s *AuthService) completeLogin(ctx context.Context, user *models.User, ip, userAgent, action string) (*models.AuthResult, error) {
	roles, err := s.users.RoleNames(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load roles", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user, roles)
	if err != nil {
		s.logger.Error("failed to issue access token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	refreshValue, _, err := s.tokens.IssueRefreshToken(ctx, user.ID, ip, userAgent)
	if err != nil {
		s.logger.Error("failed to issue refresh token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	s.audit.Record(ctx, &user.ID, action, true, ip, userAgent, "")
	s.sendSessionAlert(user, ip, userAgent)

	return &models.AuthResult{
		Succeeded:    true,
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresAt:    expiresAt,
	}, nil
}

// sendSessionAlert notifies the account owner about the new session. It
// runs detached: the login response never waits for (or fails on) the
// notification service.
func (s *AuthService) sendSessionAlert(user *models.User, ip, userAgent string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		info := device.Parse(userAgent)
		now := time.Now().UTC()
		data := notification.NewSessionAlertData{
			Name:      user.FullName(),
			Date:      now.Format("2006-01-02"),
			Time:      now.Format("15:04:05 UTC"),
			Device:    info.Device,
			Browser:   info.Browser,
			IPAddress: ip,
		}
		if err := s.notifier.Send(ctx, user.Email, notification.TemplateNewSessionAlert, data); err != nil {
			s.logger.Warn("failed to send new-session alert",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}()
}

// Refresh exchanges a refresh token for a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, tokenValue, ip, userAgent string) (*models.AuthResult, error) {
	rotation, err := s.tokens.Rotate(ctx, tokenValue, ip)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("failure").Inc()
		return nil, err
	}

	user, err := s.users.FindByID(ctx, rotation.UserID)
	if err != nil {
		s.logger.Error("refresh: user lookup failed", zap.String("user_id", rotation.UserID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}
	roles, err := s.users.RoleNames(ctx, user.ID)
	if err != nil {
		s.logger.Error("refresh: failed to load roles", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}
	accessToken, expiresAt, err := s.tokens.IssueAccessToken(user, roles)
	if err != nil {
		s.logger.Error("refresh: failed to issue access token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	metrics.TokenRefreshes.WithLabelValues("success").Inc()
	s.audit.Record(ctx, &user.ID, models.AuditRefreshToken, true, ip, userAgent, "")

	return &models.AuthResult{
		Succeeded:    true,
		AccessToken:  accessToken,
		RefreshToken: rotation.Value,
		ExpiresAt:    expiresAt,
	}, nil
}

// RevokeToken invalidates one refresh token (logout).
func (s *AuthService) RevokeToken(ctx context.Context, tokenValue, ip, userAgent string) error {
	stored, err := s.tokens.Revoke(ctx, tokenValue, ip)
	if err != nil {
		if stored != nil {
			s.audit.Record(ctx, &stored.UserID, models.AuditRevokeToken, false, ip, userAgent, err.Error())
		}
		return err
	}
	s.audit.Record(ctx, &stored.UserID, models.AuditRevokeToken, true, ip, userAgent, "")
	return nil
}

// Register creates a new account and mails an email-confirmation code.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest, ip, userAgent string) error {
	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("register: password hashing failed", zap.Error(err))
		return domainErrors.ErrInternal
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domainErrors.ErrEmailExists) {
			return domainErrors.ErrEmailExists
		}
		s.logger.Error("register: user creation failed", zap.Error(err))
		return domainErrors.ErrInternal
	}

	s.audit.Record(ctx, &user.ID, models.AuditRegister, true, ip, userAgent, "")
	if err := s.issueVerificationCode(ctx, user, models.PurposeEmailConfirmation); err != nil {
		// The account exists; the user can request a new code.
		s.logger.Warn("register: failed to issue confirmation code", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return nil
}

// issueVerificationCode replaces the user's codes for the purpose with a
// fresh one and mails it, detached from the request.
func (s *AuthService) issueVerificationCode(ctx context.Context, user *models.User, purpose models.VerificationPurpose) error {
	value, err := security.GenerateSecureToken(16)
	if err != nil {
		return err
	}

	if err := s.verificationCodes.DeleteForUser(ctx, user.ID, purpose); err != nil {
		return err
	}
	code := &models.VerificationCode{
		ID:        uuid.New(),
		UserID:    user.ID,
		CodeHash:  security.HashToken(value),
		Purpose:   purpose,
		ExpiresAt: time.Now().UTC().Add(verificationCodeTTL),
	}
	if err := s.verificationCodes.Create(ctx, code); err != nil {
		return err
	}

	template := notification.TemplateEmailConfirmation
	var data any = notification.EmailConfirmationData{Name: user.FullName(), Code: value}
	if purpose == models.PurposePasswordReset {
		template = notification.TemplatePasswordReset
		data = notification.PasswordResetData{Name: user.FullName(), Code: value}
	}

	email := user.Email
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.Send(sendCtx, email, template, data); err != nil {
			s.logger.Warn("failed to send verification code",
				zap.String("template", template),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// ConfirmEmail consumes a confirmation code and marks the email confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, email, code, ip, userAgent string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domainErrors.ErrCodeInvalid
	}

	ok, err := s.verificationCodes.Consume(ctx, user.ID, security.HashToken(code), models.PurposeEmailConfirmation)
	if err != nil {
		s.logger.Error("confirm email: consume failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	if !ok {
		s.audit.Record(ctx, &user.ID, models.AuditConfirmEmail, false, ip, userAgent, "invalid or expired code")
		return domainErrors.ErrCodeInvalid
	}

	if err := s.users.SetEmailConfirmed(ctx, user.ID); err != nil {
		s.logger.Error("confirm email: update failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	s.audit.Record(ctx, &user.ID, models.AuditConfirmEmail, true, ip, userAgent, "")
	return nil
}

// ResendConfirmation issues a new confirmation code. It always reports
// success so the endpoint cannot be used to probe for accounts.
func (s *AuthService) ResendConfirmation(ctx context.Context, email, ip, userAgent string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil
	}
	if user.EmailConfirmed {
		return nil
	}

	if err := s.issueVerificationCode(ctx, user, models.PurposeEmailConfirmation); err != nil {
		s.logger.Warn("resend confirmation failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil
	}
	s.audit.Record(ctx, &user.ID, models.AuditResendConfirmation, true, ip, userAgent, "")
	return nil
}

// ChangePassword replaces the caller's password and revokes every refresh
// token, ending all sessions.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, ip, userAgent string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := s.passwords.CheckPasswordHash(currentPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error("change password: verification failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	if !match {
		s.audit.Record(ctx, &user.ID, models.AuditChangePassword, false, ip, userAgent, "invalid current password")
		return domainErrors.ErrInvalidCredentials
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("change password: hashing failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, time.Now().UTC()); err != nil {
		s.logger.Error("change password: update failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}

	if _, err := s.tokens.RevokeAllForUser(ctx, user.ID, ip, nil); err != nil {
		s.logger.Error("change password: failed to revoke sessions", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.audit.Record(ctx, &user.ID, models.AuditChangePassword, true, ip, userAgent, "all sessions revoked")
	return nil
}

// ForgotPassword issues a reset code. Always reports success.
func (s *AuthService) ForgotPassword(ctx context.Context, email, ip, userAgent string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil
	}

	if err := s.issueVerificationCode(ctx, user, models.PurposePasswordReset); err != nil {
		s.logger.Warn("forgot password failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil
	}
	s.audit.Record(ctx, &user.ID, models.AuditForgotPassword, true, ip, userAgent, "")
	return nil
}

// ResetPassword consumes a reset code, replaces the password and revokes
// every session.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword, ip, userAgent string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domainErrors.ErrCodeInvalid
	}

	ok, err := s.verificationCodes.Consume(ctx, user.ID, security.HashToken(code), models.PurposePasswordReset)
	if err != nil {
		s.logger.Error("reset password: consume failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	if !ok {
		s.audit.Record(ctx, &user.ID, models.AuditResetPassword, false, ip, userAgent, "invalid or expired code")
		return domainErrors.ErrCodeInvalid
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("reset password: hashing failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, time.Now().UTC()); err != nil {
		s.logger.Error("reset password: update failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		return domainErrors.ErrInternal
	}
	if _, err := s.tokens.RevokeAllForUser(ctx, user.ID, ip, nil); err != nil {
		s.logger.Error("reset password: failed to revoke sessions", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.audit.Record(ctx, &user.ID, models.AuditResetPassword, true, ip, userAgent, "all sessions revoked")
	return nil
}
