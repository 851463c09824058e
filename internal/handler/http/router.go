// File: internal/handler/http/router.go
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/handler/http/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Auth        *AuthHandler
	TwoFactor   *TwoFactorHandler
	Sessions    *SessionHandler
	TokenParser middleware.TokenParser
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Logger),
		middleware.RequestLogger(deps.Logger),
		middleware.CORS(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	identity := router.Group("/v1/identity")
	{
		identity.POST("", deps.Auth.Register)
		identity.POST("/authentication", deps.Auth.Login)
		identity.POST("/2fa/authenticate", deps.Auth.LoginTwoFactor)
		identity.POST("/refresh-token", deps.Auth.Refresh)
		identity.POST("/forgot-password", deps.Auth.ForgotPassword)
		identity.POST("/reset-password", deps.Auth.ResetPassword)
		identity.POST("/confirm-email", deps.Auth.ConfirmEmail)
		identity.POST("/resend-email-confirmation", deps.Auth.ResendConfirmation)

		authed := identity.Group("")
		authed.Use(middleware.RequireAuth(deps.TokenParser))
		{
			authed.POST("/revoke-token", deps.Auth.RevokeToken)
			authed.POST("/change-password", deps.Auth.ChangePassword)

			authed.POST("/2fa/enable", deps.TwoFactor.Enable)
			authed.POST("/2fa/verify", deps.TwoFactor.Verify)
			authed.POST("/2fa/disable", deps.TwoFactor.Disable)
			authed.POST("/2fa/backup-codes/regenerate", deps.TwoFactor.RegenerateBackupCodes)
			authed.GET("/2fa/backup-codes/status", deps.TwoFactor.BackupCodeStatus)

			authed.GET("/sessions", deps.Sessions.List)
			authed.DELETE("/sessions/all", deps.Sessions.RevokeAll)
			authed.DELETE("/sessions/:id", deps.Sessions.RevokeOne)

			authed.GET("/activity", deps.Sessions.Activity)
		}
	}

	return router
}
