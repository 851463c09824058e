// File: internal/domain/models/auth.go
package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims is the fixed claim set carried by an access token.
// Subject holds the user id.
type AccessTokenClaims struct {
	Email             string   `json:"email"`
	Name              string   `json:"name"`
	Surname           string   `json:"surname"`
	EmailConfirmed    bool     `json:"email_confirmed"`
	TwoFactorEnabled  bool     `json:"two_factor_enabled"`
	PasswordChangedAt string   `json:"password_changed_at,omitempty"`
	Roles             []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthResult is the outcome of a successful or partially successful
// authentication. Requires2FA with an empty token pair means the caller
// must complete the second factor via UserID.
type AuthResult struct {
	Succeeded    bool      `json:"succeeded"`
	Requires2FA  bool      `json:"requires2FA,omitempty"`
	UserID       string    `json:"userId,omitempty"`
	AccessToken  string    `json:"accessToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    time.Time `json:"expiresAt,omitempty"`
}

// TwoFactorSetup is returned by 2FA enablement: the shared secret, its
// otpauth provisioning URI and a fresh batch of single-use backup codes.
// The codes are shown once and stored only as hashes.
type TwoFactorSetup struct {
	Secret          string   `json:"sharedKey"`
	ProvisioningURI string   `json:"authenticatorUri"`
	BackupCodes     []string `json:"backupCodes"`
}
