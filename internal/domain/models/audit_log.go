// File: internal/domain/models/audit_log.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions. String values are part of the stored record and the
// activity API, keep them stable.
const (
	AuditLogin                 = "Login"
	Audit2FAAuthentication     = "2FAAuthentication"
	AuditRefreshToken          = "RefreshToken"
	AuditRefreshTokenReuse     = "RefreshTokenReuse"
	AuditRevokeToken           = "RevokeToken"
	AuditRevokeSession         = "RevokeSession"
	AuditRevokeAllSessions     = "RevokeAllSessions"
	AuditEnable2FA             = "Enable2FA"
	AuditVerify2FA             = "Verify2FA"
	AuditDisable2FA            = "Disable2FA"
	AuditRegenerateBackupCodes = "RegenerateBackupCodes"
	AuditRegister              = "Register"
	AuditConfirmEmail          = "ConfirmEmail"
	AuditResendConfirmation    = "ResendEmailConfirmation"
	AuditChangePassword        = "ChangePassword"
	AuditForgotPassword        = "ForgotPassword"
	AuditResetPassword         = "ResetPassword"
)

// AuditLogEntry is one append-only security event. UserID is nil when the
// event could not be tied to an account (e.g. login with unknown email).
type AuditLogEntry struct {
	ID        uuid.UUID
	UserID    *uuid.UUID
	Action    string
	Success   bool
	IPAddress string
	UserAgent string
	Detail    *string
	CreatedAt time.Time
}
