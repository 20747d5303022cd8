package auth

import (
	"testing"
	"time"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, err := tm.Generate(7, 3, "OWNER")
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, uint(3), claims.OrgID)
	assert.Equal(t, "OWNER", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	a, err := tm.Generate(1, 1, "OWNER")
	require.NoError(t, err)
	b, err := tm.Generate(1, 1, "OWNER")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestExpiredToken(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.Generate(1, 1, "OWNER")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.Validate(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	claims, err := tm.ParseIgnoringExpiry(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
}

func TestInvalidTokens(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	foreign, err := other.Generate(1, 1, "OWNER")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"alg none":     unsigned,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tm.Validate(token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)

			_, err = tm.ParseIgnoringExpiry(token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}
