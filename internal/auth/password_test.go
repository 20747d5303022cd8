package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("motdepasse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))

	ok, err := hasher.Verify("motdepasse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordSaltDiffers(t *testing.T) {
	hasher := NewPasswordHasherWithConfig(PasswordConfig{Time: 1, Memory: 1024, Threads: 1, KeyLen: 16})

	a, err := hasher.Hash("same")
	require.NoError(t, err)
	b, err := hasher.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	// Parameters come from the stored hash.
	ok, err := NewPasswordHasher().Verify("same", a)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher()

	for _, hash := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		_, err := hasher.Verify("x", hash)
		assert.ErrorIs(t, err, ErrMalformedHash, hash)
	}
}
