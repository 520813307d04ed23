package stub

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/testplatform/probe/internal/platform/logger"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims are the validated claims of an access token.
type Claims struct {
	Username  string
	Role      string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

type tokenClaims struct {
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens.
type TokenService struct {
	signingKey      []byte
	tokenLifetime   time.Duration
	refreshLifetime time.Duration
	timeFunc        func() time.Time
	clockSkew       time.Duration
}

// NewTokenService creates a TokenService. Refresh tokens live seven times as
// long as access tokens.
func NewTokenService(secret string, lifetime time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}
	return &TokenService{
		signingKey:      []byte(secret),
		tokenLifetime:   lifetime,
		refreshLifetime: 7 * lifetime,
		timeFunc:        time.Now,
		clockSkew:       2 * time.Minute,
	}, nil
}

// Lifetime returns the access token lifetime.
func (s *TokenService) Lifetime() time.Duration {
	return s.tokenLifetime
}

// Issue returns a signed access token and refresh token for u.
func (s *TokenService) Issue(ctx context.Context, u User) (access, refresh string, err error) {
	access, err = s.sign(ctx, u, tokenTypeAccess, s.tokenLifetime)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.sign(ctx, u, tokenTypeRefresh, s.refreshLifetime)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *TokenService) sign(ctx context.Context, u User, tokenType string, lifetime time.Duration) (string, error) {
	now := s.timeFunc()
	claims := tokenClaims{
		Role:      u.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign token",
			"error", err,
			"username", u.Username,
			"token_type", tokenType)
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Validate parses an access token and returns its claims.
func (s *TokenService) Validate(ctx context.Context, raw string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	tok, err := jwt.ParseWithClaims(raw, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(s.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Debug("token validation failed: expired", "error", err)
			return nil, ErrExpiredToken
		}
		log.Debug("token validation failed", "error", err, "error_type", fmt.Sprintf("%T", err))
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*tokenClaims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess {
		log.Debug("token validation failed: wrong token type",
			"expected", tokenTypeAccess,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	return &Claims{
		Username:  claims.Subject,
		Role:      claims.Role,
		TokenType: claims.TokenType,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
