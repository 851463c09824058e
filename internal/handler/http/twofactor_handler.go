// File: internal/handler/http/twofactor_handler.go
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

// TwoFactorManager is the 2FA lifecycle surface the handler needs.
type TwoFactorManager interface {
	Setup(ctx context.Context, userID uuid.UUID, ip, userAgent string) (*models.TwoFactorSetup, error)
	ConfirmSetup(ctx context.Context, userID uuid.UUID, code, ip, userAgent string) error
	Disable(ctx context.Context, userID uuid.UUID, password, code, ip, userAgent string) error
	RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, password, code, ip, userAgent string) ([]string, error)
	BackupCodeStatus(ctx context.Context, userID uuid.UUID) (int, error)
}

// TwoFactorHandler serves the authenticated 2FA management endpoints.
type TwoFactorHandler struct {
	twoFactor TwoFactorManager
}

// NewTwoFactorHandler creates a new instance.
func NewTwoFactorHandler(twoFactor TwoFactorManager) *TwoFactorHandler {
	return &TwoFactorHandler{twoFactor: twoFactor}
}

// Enable handles POST /v1/identity/2fa/enable.
func (h *TwoFactorHandler) Enable(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	setup, err := h.twoFactor.Setup(c.Request.Context(), userID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		respondInternalError(c)
		return
	}
	c.JSON(http.StatusOK, setup)
}

// Verify handles POST /v1/identity/2fa/verify, completing enablement.
func (h *TwoFactorHandler) Verify(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req models.VerifyTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.twoFactor.ConfirmSetup(c.Request.Context(), userID, req.Code, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, "Two-factor authentication enabled.")
	case errors.Is(err, domainErrors.ErrInvalid2FACode):
		respondMessage(c, http.StatusBadRequest, msgInvalidTwoFactor)
	case errors.Is(err, domainErrors.Err2FANotInitiated):
		respondMessage(c, http.StatusBadRequest, "Two-factor setup has not been initiated.")
	default:
		respondInternalError(c)
	}
}

// Disable handles POST /v1/identity/2fa/disable.
func (h *TwoFactorHandler) Disable(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req models.DisableTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	err := h.twoFactor.Disable(c.Request.Context(), userID, req.Password, req.Code, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		respondMessage(c, http.StatusOK, "Two-factor authentication disabled.")
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, domainErrors.ErrInvalid2FACode):
		respondMessage(c, http.StatusBadRequest, "Invalid password or code.")
	case errors.Is(err, domainErrors.Err2FANotEnabled):
		respondMessage(c, http.StatusBadRequest, "Two-factor authentication is not enabled.")
	default:
		respondInternalError(c)
	}
}

// RegenerateBackupCodes handles POST /v1/identity/2fa/backup-codes/regenerate.
func (h *TwoFactorHandler) RegenerateBackupCodes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	var req models.RegenerateBackupCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	codes, err := h.twoFactor.RegenerateBackupCodes(c.Request.Context(), userID, req.Password, req.Code, c.ClientIP(), c.Request.UserAgent())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"backupCodes": codes})
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, domainErrors.ErrInvalid2FACode):
		respondMessage(c, http.StatusBadRequest, "Invalid password or code.")
	case errors.Is(err, domainErrors.Err2FANotEnabled):
		respondMessage(c, http.StatusBadRequest, "Two-factor authentication is not enabled.")
	default:
		respondInternalError(c)
	}
}

// BackupCodeStatus handles GET /v1/identity/2fa/backup-codes/status.
func (h *TwoFactorHandler) BackupCodeStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondMessage(c, http.StatusUnauthorized, "Authentication required.")
		return
	}

	remaining, err := h.twoFactor.BackupCodeStatus(c.Request.Context(), userID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"remaining": remaining})
	case errors.Is(err, domainErrors.Err2FANotEnabled):
		respondMessage(c, http.StatusBadRequest, "Two-factor authentication is not enabled.")
	default:
		respondInternalError(c)
	}
}
