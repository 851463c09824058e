// File: internal/handler/http/auth_handler.go
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/handler/http/middleware"
)

// AuthOrchestrator is the authentication surface the handler needs.
type AuthOrchestrator interface {
	Login(ctx context.Context, email, password, ip, userAgent string) (*models.AuthResult, int, error)
	LoginTwoFactor(ctx context.Context, userID uuid.UUID, code, ip, userAgent string) (*models.AuthResult, error)
	Refresh(ctx context.Context, tokenValue, ip, userAgent string) (*models.AuthResult, error)
	RevokeToken(ctx context.Context, tokenValue, ip, userAgent string) error
	Register(ctx context.Context, req models.RegisterRequest, ip, userAgent string) error
	ConfirmEmail(ctx context.Context, email, code, ip, userAgent string) error
	ResendConfirmation(ctx context.Context, email, ip, userAgent string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, ip, userAgent string) error
	ForgotPassword(ctx context.Context, email, ip, userAgent string) error
	ResetPassword(ctx context.Context, email, code, newPassword, ip, userAgent string) error
}

const (
	msgInvalidCredentials = "Invalid email or password."
	msgAccountBlocked     = "Account blocked for 15 minutes."
	msgInvalidTwoFactor   = "Invalid two-factor code."
	msgInvalidRefresh     = "Invalid or expired refresh token."
	msgInvalidCode        = "Invalid or expired verification code."
)

// AuthHandler serves registration, login and the token/password flows.
type AuthHandler struct {
	auth AuthOrchestrator
}

// NewAuthHandler creates a new instance.
func NewAuthHandler(auth AuthOrchestrator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /v1/identity.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.auth.Register(c.Request.Context(), req, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusCreated, "Account created. Check your email for a confirmation code.")
	case errors.Is(err, domainErrors.ErrEmailExists):
		respondMessage(c, http.StatusConflict, "Email address already registered.")
	default:
		respondInternalError(c)
	}
}

// Login handles POST /v1/identity/authentication.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, attemptsRemaining, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, domainErrors.ErrAccountLocked):
		respondMessage(c, http.StatusTooManyRequests, msgAccountBlocked)
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{
			"message":           msgInvalidCredentials,
			"attemptsRemaining": attemptsRemaining,
		})
	default:
		respondInternalError(c)
	}
}

// LoginTwoFactor handles POST /v1/identity/2fa/authenticate.
func (h *AuthHandler) LoginTwoFactor(c *gin.Context) {
	var req models.TwoFactorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.auth.LoginTwoFactor(c.Request.Context(), userID, req.Code, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case errors.Is(err, domainErrors.ErrAccountLocked):
		respondMessage(c, http.StatusTooManyRequests, msgAccountBlocked)
	case errors.Is(err, domainErrors.ErrInvalid2FACode):
		respondMessage(c, http.StatusBadRequest, msgInvalidTwoFactor)
	default:
		respondInternalError(c)
	}
}

// Refresh handles POST /v1/identity/refresh-token. Every token failure
// collapses into one generic 401 so token state cannot be probed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, result)
	case domainErrors.IsTokenError(err):
		respondMessage(c, http.StatusUnauthorized, msgInvalidRefresh)
	default:
		respondInternalError(c)
	}
}

// RevokeToken handles POST /v1/identity/revoke-token.
func (h *AuthHandler) RevokeToken(c *gin.Context) {
	var req models.RevokeTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.auth.RevokeToken(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, "Token revoked.")
	case domainErrors.IsTokenError(err):
		respondMessage(c, http.StatusBadRequest, msgInvalidRefresh)
	default:
		respondInternalError(c)
	}
}

// ChangePassword handles POST /v1/identity/change-password (auth).
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, "Password changed. All sessions have been signed out.")
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		respondMessage(c, http.StatusBadRequest, "Current password is incorrect.")
	case errors.Is(err, domainErrors.ErrNotFound):
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
	default:
		respondInternalError(c)
	}
}

// ForgotPassword handles POST /v1/identity/forgot-password. The response
// is identical whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	_ = h.auth.ForgotPassword(c.Request.Context(), req.Email, c.ClientIP(), c.Request.UserAgent())
	respondMessage(c, http.StatusOK, "If the account exists, a reset code has been sent.")
}

// ResetPassword handles POST /v1/identity/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, "Password reset. All sessions have been signed out.")
	case errors.Is(err, domainErrors.ErrCodeInvalid):
		respondMessage(c, http.StatusBadRequest, msgInvalidCode)
	default:
		respondInternalError(c)
	}
}

// ConfirmEmail handles POST /v1/identity/confirm-email.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req models.ConfirmEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.auth.ConfirmEmail(c.Request.Context(), req.Email, req.Code, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, "Email address confirmed.")
	case errors.Is(err, domainErrors.ErrCodeInvalid):
		respondMessage(c, http.StatusBadRequest, msgInvalidCode)
	default:
		respondInternalError(c)
	}
}

// ResendConfirmation handles POST /v1/identity/resend-email-confirmation.
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	var req models.ResendConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	_ = h.auth.ResendConfirmation(c.Request.Context(), req.Email, c.ClientIP(), c.Request.UserAgent())
	respondMessage(c, http.StatusOK, "If the account exists and is unconfirmed, a new code has been sent.")
}
