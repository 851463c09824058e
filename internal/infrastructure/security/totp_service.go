// File: internal/infrastructure/security/totp_service.go
package security

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTPService generates authenticator secrets and validates codes.
type TOTPService interface {
	GenerateSecret(accountName string) (secret string, provisioningURI string, err error)
	ValidateCode(secret, code string) bool
}

type pquernaTOTPService struct {
	issuer string
}

// NewPquernaTOTPService creates a TOTPService with the given issuer name,
// shown in authenticator apps.
func NewPquernaTOTPService(issuer string) TOTPService {
	return &pquernaTOTPService{issuer: issuer}
}

// GenerateSecret creates a new shared secret and its otpauth:// URI.
func (s *pquernaTOTPService) GenerateSecret(accountName string) (string, string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		Period:      30,
		SecretSize:  20,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return key.Secret(), key.URL(), nil
}

// ValidateCode checks a 6-digit code against the secret, accepting one
// period of clock skew either way.
func (s *pquernaTOTPService) ValidateCode(secret, code string) bool {
	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false
	}
	return valid
}

var _ TOTPService = (*pquernaTOTPService)(nil)
