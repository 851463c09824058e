// File: internal/infrastructure/security/token_utils_test.go
package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64) // hex doubles the byte length

	other, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestHashToken(t *testing.T) {
	hash := HashToken("some-token-value")

	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashToken("some-token-value"))
	assert.NotEqual(t, hash, HashToken("some-other-value"))
}

func TestGenerateBackupCode(t *testing.T) {
	code, err := GenerateBackupCode()
	require.NoError(t, err)
	assert.Len(t, code, BackupCodeLength)

	for _, r := range code {
		assert.Contains(t, backupCodeAlphabet, string(r))
	}
}
