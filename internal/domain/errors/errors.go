// File: internal/domain/errors/errors.go
package errors

import "errors"

// Sentinel errors for the identity domain. Services return these (possibly
// wrapped); handlers map them onto HTTP status codes and response bodies.
var (
	// ErrInternal is a generic internal error for unexpected failures.
	ErrInternal = errors.New("internal server error")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers both unknown-account and wrong-password
	// outcomes so the two are indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountLocked indicates the lockout guard is refusing attempts
	// for this account.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrEmailExists indicates a registration attempt with an email that
	// already has an account.
	ErrEmailExists = errors.New("email address already registered")

	// ErrInvalid2FACode indicates a TOTP or backup code that did not verify.
	ErrInvalid2FACode = errors.New("invalid two-factor code")

	// Err2FANotEnabled indicates a 2FA operation against an account that
	// has no active second factor.
	Err2FANotEnabled = errors.New("two-factor authentication is not enabled")

	// Err2FANotInitiated indicates a setup confirmation with no pending secret.
	Err2FANotInitiated = errors.New("two-factor setup has not been initiated")

	// Refresh-token failures. Handlers must collapse all three into one
	// generic message so a caller cannot probe token state.
	ErrTokenNotFound = errors.New("refresh token not found")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenRevoked  = errors.New("refresh token revoked")

	// ErrCodeInvalid indicates an unknown, expired or already-used
	// verification code (email confirmation, password reset).
	ErrCodeInvalid = errors.New("invalid or expired verification code")
)

// IsTokenError reports whether err is one of the refresh-token sentinels.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenNotFound) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenRevoked)
}

// IsAuthFailure reports whether err is an expected authentication failure
// (as opposed to an infrastructure problem).
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrInvalid2FACode)
}
