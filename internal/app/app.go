// File: internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	goredis "github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/config"
	"github.com/storecraft/identity-service/internal/domain/repository/postgres"
	redisrepo "github.com/storecraft/identity-service/internal/domain/repository/redis"
	httphandler "github.com/storecraft/identity-service/internal/handler/http"
	"github.com/storecraft/identity-service/internal/infrastructure/notification"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
	"github.com/storecraft/identity-service/internal/service"
)

// App owns the service's wiring and lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *goredis.Client
	server *http.Server
}

// New connects the stores and assembles the service graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// The lockout guard degrades open, so an unreachable Redis is a
		// warning at startup, not a hard failure.
		logger.Warn("redis unreachable at startup", zap.Error(err))
	}

	users := postgres.NewUserRepositoryPostgres(pool)
	refreshTokens := postgres.NewRefreshTokenRepositoryPostgres(pool)
	backupCodes := postgres.NewBackupCodeRepositoryPostgres(pool)
	verificationCodes := postgres.NewVerificationCodeRepositoryPostgres(pool)
	auditLogs := postgres.NewAuditLogRepositoryPostgres(pool)
	lockoutStore := redisrepo.NewLockoutStore(redisClient)

	passwords, err := security.NewArgon2idPasswordService(security.DefaultArgon2idParams())
	if err != nil {
		pool.Close()
		return nil, err
	}
	totp := security.NewPquernaTOTPService(cfg.TwoFactor.Issuer)
	notifier := notification.NewClient(cfg.Notification.BaseURL, cfg.Notification.APIKey, cfg.Notification.Timeout, logger)

	audit := service.NewAuditRecorder(auditLogs, logger)
	lockout := service.NewLockoutGuard(lockoutStore, cfg.Lockout.MaxAttempts, cfg.Lockout.Window, cfg.Lockout.BlockFor, logger)
	tokens := service.NewTokenService(refreshTokens, audit, cfg.JWT, logger)
	twoFactor := service.NewTwoFactorService(users, backupCodes, passwords, totp, audit, cfg.TwoFactor.BackupCodeCount, logger)
	sessions := service.NewSessionService(refreshTokens, audit, logger)
	auth := service.NewAuthService(users, verificationCodes, passwords, lockout, tokens, twoFactor, audit, notifier, logger)

	if err := seedTestUser(ctx, cfg, users, passwords, logger); err != nil {
		pool.Close()
		return nil, err
	}

	router := httphandler.NewRouter(httphandler.RouterDeps{
		Auth:        httphandler.NewAuthHandler(auth),
		TwoFactor:   httphandler.NewTwoFactorHandler(twoFactor),
		Sessions:    httphandler.NewSessionHandler(sessions, audit),
		TokenParser: tokens,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		server: server,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("identity service listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		a.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Warn("failed to close redis client", zap.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
