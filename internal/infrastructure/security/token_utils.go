// File: internal/infrastructure/security/token_utils.go
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateSecureToken returns byteLength random bytes, hex-encoded. Used
// for refresh tokens and verification codes.
func GenerateSecureToken(byteLength int) (string, error) {
	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token value.
// Token values are stored only in this form.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

const backupCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// BackupCodeLength is the number of characters in a recovery code.
const BackupCodeLength = 10

// GenerateBackupCode returns one uppercase alphanumeric recovery code.
func GenerateBackupCode() (string, error) {
	code := make([]byte, BackupCodeLength)
	max := big.NewInt(int64(len(backupCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate backup code: %w", err)
		}
		code[i] = backupCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
