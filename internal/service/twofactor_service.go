// File: internal/service/twofactor_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
	"github.com/storecraft/identity-service/internal/utils/metrics"
)

// SecondFactorVerifier is the piece of 2FA the login path needs.
type SecondFactorVerifier interface {
	VerifyCode(ctx context.Context, userID uuid.UUID, code string) (bool, error)
}

// TwoFactorService manages the TOTP second factor and its backup codes.
// Enablement is two-phase: Setup stores a pending secret, ConfirmSetup
// proves the authenticator was provisioned before the flag flips.
type TwoFactorService struct {
	users           repository.UserRepository
	backupCodes     repository.BackupCodeRepository
	passwords       security.PasswordService
	totp            security.TOTPService
	audit           AuditSink
	backupCodeCount int
	logger          *zap.Logger
}

// NewTwoFactorService creates a new instance.
func NewTwoFactorService(
	users repository.UserRepository,
	backupCodes repository.BackupCodeRepository,
	passwords security.PasswordService,
	totp security.TOTPService,
	audit AuditSink,
	backupCodeCount int,
	logger *zap.Logger,
) *TwoFactorService {
	return &TwoFactorService{
		users:           users,
		backupCodes:     backupCodes,
		passwords:       passwords,
		totp:            totp,
		audit:           audit,
		backupCodeCount: backupCodeCount,
		logger:          logger,
	}
}

// Setup starts 2FA enablement: a new pending secret replaces any previous
// one and a fresh batch of backup codes is generated. The plaintext codes
// appear only in the returned value.
func (s *TwoFactorService) Setup(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*models.TwoFactorSetup, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	secret, uri, err := s.totp.GenerateSecret(user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetTwoFactorSecret(ctx, user.ID, secret); err != nil {
		return nil, err
	}

	codes, hashes, err := s.generateBackupCodes()
	if err != nil {
		return nil, err
	}
	if err := s.backupCodes.Replace(ctx, user.ID, hashes); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, models.AuditEnable2FA, true, ip, userAgent, "two-factor setup initiated")
	return &models.TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: uri,
		BackupCodes:     codes,
	}, nil
}

// ConfirmSetup completes enablement once the user proves the secret with
// a valid TOTP code.
func (s *TwoFactorService) ConfirmSetup(ctx context.Context, userID uuid.UUID, code, ip, userAgent string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.TwoFactorSecret == nil {
		return domainErrors.Err2FANotInitiated
	}

	if !s.totp.ValidateCode(*user.TwoFactorSecret, strings.TrimSpace(code)) {
		s.audit.Record(ctx, &user.ID, models.AuditVerify2FA, false, ip, userAgent, "invalid confirmation code")
		return domainErrors.ErrInvalid2FACode
	}

	if err := s.users.ActivateTwoFactor(ctx, user.ID); err != nil {
		return err
	}
	s.audit.Record(ctx, &user.ID, models.AuditVerify2FA, true, ip, userAgent, "two-factor enabled")
	return nil
}

// VerifyCode checks a second-factor proof: a TOTP code first, then a
// backup code. A matching backup code is consumed and cannot be used
// again.
func (s *TwoFactorService) VerifyCode(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if !user.TwoFactorEnabled || user.TwoFactorSecret == nil {
		return false, domainErrors.Err2FANotEnabled
	}

	code = strings.TrimSpace(code)
	if s.totp.ValidateCode(*user.TwoFactorSecret, code) {
		metrics.TwoFactorChecks.WithLabelValues("totp").Inc()
		return true, nil
	}

	consumed, err := s.backupCodes.Consume(ctx, user.ID, security.HashToken(strings.ToUpper(code)))
	if err != nil {
		return false, err
	}
	if consumed {
		metrics.TwoFactorChecks.WithLabelValues("backup_code").Inc()
		remaining, countErr := s.backupCodes.CountUnused(ctx, user.ID)
		if countErr == nil {
			s.logger.Info("backup code consumed",
				zap.String("user_id", user.ID.String()),
				zap.Int("remaining", remaining),
			)
		}
		return true, nil
	}

	metrics.TwoFactorChecks.WithLabelValues("invalid").Inc()
	return false, nil
}

// Disable turns 2FA off. It demands a fresh proof of both factors and
// drops the secret together with every backup code, so nothing of the old
// second factor survives.
func (s *TwoFactorService) Disable(ctx context.Context, userID uuid.UUID, password, code, ip, userAgent string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := s.passwords.CheckPasswordHash(password, user.PasswordHash)
	if err != nil {
		return err
	}
	if !match {
		s.audit.Record(ctx, &user.ID, models.AuditDisable2FA, false, ip, userAgent, "invalid password")
		return domainErrors.ErrInvalidCredentials
	}

	ok, err := s.VerifyCode(ctx, user.ID, code)
	if err != nil {
		return err
	}
	if !ok {
		s.audit.Record(ctx, &user.ID, models.AuditDisable2FA, false, ip, userAgent, "invalid code")
		return domainErrors.ErrInvalid2FACode
	}

	if err := s.users.DisableTwoFactor(ctx, user.ID); err != nil {
		return err
	}
	s.audit.Record(ctx, &user.ID, models.AuditDisable2FA, true, ip, userAgent, "two-factor disabled")
	return nil
}

// RegenerateBackupCodes replaces the user's codes with a fresh batch,
// invalidating all previous ones. Requires the same proofs as Disable.
func (s *TwoFactorService) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, password, code, ip, userAgent string) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.TwoFactorEnabled {
		return nil, domainErrors.Err2FANotEnabled
	}

	match, err := s.passwords.CheckPasswordHash(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !match {
		s.audit.Record(ctx, &user.ID, models.AuditRegenerateBackupCodes, false, ip, userAgent, "invalid password")
		return nil, domainErrors.ErrInvalidCredentials
	}

	ok, err := s.VerifyCode(ctx, user.ID, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.audit.Record(ctx, &user.ID, models.AuditRegenerateBackupCodes, false, ip, userAgent, "invalid code")
		return nil, domainErrors.ErrInvalid2FACode
	}

	codes, hashes, err := s.generateBackupCodes()
	if err != nil {
		return nil, err
	}
	if err := s.backupCodes.Replace(ctx, user.ID, hashes); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &user.ID, models.AuditRegenerateBackupCodes, true, ip, userAgent, "backup codes regenerated")
	return codes, nil
}

// BackupCodeStatus returns how many unused backup codes the user has left.
func (s *TwoFactorService) BackupCodeStatus(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !user.TwoFactorEnabled {
		return 0, domainErrors.Err2FANotEnabled
	}
	return s.backupCodes.CountUnused(ctx, user.ID)
}

func (s *TwoFactorService) generateBackupCodes() (codes []string, hashes []string, err error) {
	codes = make([]string, 0, s.backupCodeCount)
	hashes = make([]string, 0, s.backupCodeCount)
	for i := 0; i < s.backupCodeCount; i++ {
		code, err := security.GenerateBackupCode()
		if err != nil {
			return nil, nil, err
		}
		codes = append(codes, code)
		hashes = append(hashes, security.HashToken(code))
	}
	return codes, hashes, nil
}

var _ SecondFactorVerifier = (*TwoFactorService)(nil)
