// Package auth implements session-token issuance and validation, plus the service-account
// identity-token exchange: the only two authentication surfaces this system owns directly
// (human sign-in, OAuth, and magic-link issuance live in an external collaborator).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/agoraforge/agora/internal/config"
	"github.com/agoraforge/agora/pkg/models"
)

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   string          `json:"user_id"`
	Email    string          `json:"email"`
	Kind     models.UserKind `json:"kind"`
	IsSystem bool            `json:"is_system"`
}

// JWTService issues and validates HS256 session tokens.
type JWTService struct {
	secret        []byte
	issuer        string
	audience      string
	expiryHours   int
}

// NewJWTService creates a JWTService from auth configuration.
func NewJWTService(cfg config.AuthConfig) *JWTService {
	return &JWTService{
		secret:      []byte(cfg.JWTSecret),
		issuer:      "agora",
		audience:    cfg.JWTAudience,
		expiryHours: cfg.JWTExpirationHours,
	}
}

// GenerateSessionToken issues a signed session token for the given user.
func (s *JWTService) GenerateSessionToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.expiryHours) * time.Hour)

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		UserID:   user.ID,
		Email:    user.Email,
		Kind:     user.Kind,
		IsSystem: user.IsSystem,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateSessionToken parses and validates a session token, returning its claims.
func (s *JWTService) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithAudience(s.audience), jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, models.ErrInvalidToken
	}
	return claims, nil
}

// ExpirySeconds returns the configured session token lifetime in seconds.
func (s *JWTService) ExpirySeconds() int {
	return s.expiryHours * 3600
}
