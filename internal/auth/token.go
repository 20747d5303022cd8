// internal/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenManager struct {
	secret       []byte
	expiryPeriod time.Duration
	now          func() time.Time
}

func NewTokenManager(secret string, expiryPeriod time.Duration) *TokenManager {
	return &TokenManager{
		secret:       []byte(secret),
		expiryPeriod: expiryPeriod,
		now:          time.Now,
	}
}

type Claims struct {
	UserID uint   `json:"user_id"`
	OrgID  uint   `json:"org_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (tm *TokenManager) Generate(userID, orgID uint, role string) (string, error) {
	now := tm.now()
	claims := Claims{
		UserID: userID,
		OrgID:  orgID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiryPeriod)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry. Failures map to
// domain.ErrTokenExpired or domain.ErrInvalidToken.
func (tm *TokenManager) Validate(tokenString string) (*Claims, error) {
	return tm.parse(tokenString, jwt.WithTimeFunc(tm.now))
}

// ParseIgnoringExpiry checks the signature only, so an expired token can
// still be exchanged for a fresh one.
func (tm *TokenManager) ParseIgnoringExpiry(tokenString string) (*Claims, error) {
	return tm.parse(tokenString, jwt.WithoutClaimsValidation())
}

func (tm *TokenManager) parse(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
