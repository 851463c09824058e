// File: internal/service/token_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storecraft/identity-service/internal/config"
	domainErrors "github.com/storecraft/identity-service/internal/domain/errors"
	"github.com/storecraft/identity-service/internal/domain/models"
	"github.com/storecraft/identity-service/internal/domain/repository"
	"github.com/storecraft/identity-service/internal/infrastructure/security"
)

// TokenManager issues, rotates and revokes tokens for the orchestrator.
type TokenManager interface {
	IssueAccessToken(user *models.User, roles []string) (string, time.Time, error)
	IssueRefreshToken(ctx context.Context, userID uuid.UUID, ip, userAgent string) (string, *models.RefreshToken, error)
	Rotate(ctx context.Context, tokenValue, ip string) (*RotationResult, error)
	Revoke(ctx context.Context, tokenValue, ip string) (*models.RefreshToken, error)
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, ip string, exceptID *uuid.UUID) (int64, error)
}

// RotationResult is a successful refresh-token exchange: the new token
// value (returned to the client once) and its stored row.
type RotationResult struct {
	UserID uuid.UUID
	Value  string
	Token  *models.RefreshToken
}

// refreshTokenBytes is the entropy of an opaque refresh token; the value
// is the hex encoding, the database holds only its SHA-256.
const refreshTokenBytes = 32

// TokenService implements access-token signing (HS256) and the opaque
// refresh-token lifecycle, including reuse detection: presenting an
// already-revoked token revokes every active token of that account.
type TokenService struct {
	refreshTokens repository.RefreshTokenRepository
	audit         AuditSink
	secret        []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        *zap.Logger
}

// NewTokenService creates a new instance.
func NewTokenService(refreshTokens repository.RefreshTokenRepository, audit AuditSink, cfg config.JWTConfig, logger *zap.Logger) *TokenService {
	return &TokenService{
		refreshTokens: refreshTokens,
		audit:         audit,
		secret:        []byte(cfg.Secret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		logger:        logger,
	}
}

// IssueAccessToken signs a new access token for the user. The claim set
// is fixed; roles come from the caller so the repository round-trip stays
// out of this layer.
func (s *TokenService) IssueAccessToken(user *models.User, roles []string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.accessTTL)

	claims := models.AccessTokenClaims{
		Email:            user.Email,
		Name:             user.FirstName,
		Surname:          user.LastName,
		EmailConfirmed:   user.EmailConfirmed,
		TwoFactorEnabled: user.TwoFactorEnabled,
		Roles:            roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}
	if user.PasswordChangedAt != nil {
		claims.PasswordChangedAt = user.PasswordChangedAt.UTC().Format(time.RFC3339)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates a signed access token and returns its claims.
func (s *TokenService) ParseAccessToken(tokenString string) (*models.AccessTokenClaims, error) {
	claims := &models.AccessTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}
	return claims, nil
}

// IssueRefreshToken mints a new opaque refresh token for the user.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID uuid.UUID, ip, userAgent string) (string, *models.RefreshToken, error) {
	value, err := security.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return "", nil, err
	}

	token := &models.RefreshToken{
		ID:          uuid.New(),
		UserID:      userID,
		TokenHash:   security.HashToken(value),
		ExpiresAt:   time.Now().UTC().Add(s.refreshTTL),
		CreatedByIP: ip,
		UserAgent:   userAgent,
	}
	if err := s.refreshTokens.Create(ctx, token); err != nil {
		return "", nil, err
	}
	return value, token, nil
}

// Rotate exchanges an active refresh token for a fresh one. The old token
// is revoked with a lineage pointer to its successor in the same
// transaction, so each value is exchangeable exactly once.
//
// A token that is already revoked is treated as a theft signal: every
// active token of the account is revoked before the error is returned.
func (s *TokenService) Rotate(ctx context.Context, tokenValue, ip string) (*RotationResult, error) {
	stored, err := s.refreshTokens.FindByTokenHash(ctx, security.HashToken(tokenValue))
	if err != nil {
		return nil, err
	}

	if stored.IsRevoked() {
		s.handleReuse(ctx, stored, ip)
		return nil, domainErrors.ErrTokenRevoked
	}
	if stored.IsExpired(time.Now().UTC()) {
		return nil, domainErrors.ErrTokenExpired
	}

	value, err := security.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return nil, err
	}
	newToken := &models.RefreshToken{
		ID:          uuid.New(),
		UserID:      stored.UserID,
		TokenHash:   security.HashToken(value),
		ExpiresAt:   time.Now().UTC().Add(s.refreshTTL),
		CreatedByIP: ip,
		UserAgent:   stored.UserAgent,
	}

	if err := s.refreshTokens.Rotate(ctx, stored.ID, ip, newToken); err != nil {
		if errors.Is(err, domainErrors.ErrTokenRevoked) {
			// Lost a race with a concurrent exchange of the same value.
			s.handleReuse(ctx, stored, ip)
		}
		return nil, err
	}

	return &RotationResult{UserID: stored.UserID, Value: value, Token: newToken}, nil
}

func (s *TokenService) handleReuse(ctx context.Context, stored *models.RefreshToken, ip string) {
	count, err := s.refreshTokens.RevokeAllForUser(ctx, stored.UserID, ip, nil)
	if err != nil {
		s.logger.Error("failed to revoke tokens after reuse detection",
			zap.String("user_id", stored.UserID.String()),
			zap.Error(err),
		)
	}
	s.logger.Warn("revoked refresh token presented, revoking account sessions",
		zap.String("user_id", stored.UserID.String()),
		zap.Int64("revoked", count),
	)
	userID := stored.UserID
	s.audit.Record(ctx, &userID, models.AuditRefreshTokenReuse, false, ip, stored.UserAgent,
		fmt.Sprintf("revoked token reused, %d active sessions revoked", count))
}

// Revoke invalidates one refresh token by value.
func (s *TokenService) Revoke(ctx context.Context, tokenValue, ip string) (*models.RefreshToken, error) {
	stored, err := s.refreshTokens.FindByTokenHash(ctx, security.HashToken(tokenValue))
	if err != nil {
		return nil, err
	}
	if stored.IsRevoked() {
		return stored, domainErrors.ErrTokenRevoked
	}
	if err := s.refreshTokens.Revoke(ctx, stored.ID, ip); err != nil {
		return stored, err
	}
	return stored, nil
}

// RevokeAllForUser invalidates the user's active tokens, sparing exceptID
// when non-nil.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID, ip string, exceptID *uuid.UUID) (int64, error) {
	return s.refreshTokens.RevokeAllForUser(ctx, userID, ip, exceptID)
}

var _ TokenManager = (*TokenService)(nil)
