package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	InitializeJWT("test-secret")

	token, err := GenerateToken(7, "alice", "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)

	again, err := GenerateToken(7, "alice", "ADMIN", time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, token, again, "every login issues a distinct token")

	t.Run("expired", func(t *testing.T) {
		expired, err := GenerateToken(7, "alice", "USER", -time.Minute)
		require.NoError(t, err)
		_, err = ValidateToken(expired)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		InitializeJWT("other-secret")
		t.Cleanup(func() { InitializeJWT("test-secret") })
		_, err := ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
	assert.False(t, CheckPassword("not-a-hash", "secret123"))
}

func TestSessionData(t *testing.T) {
	assert.True(t, (&SessionData{Role: "ADMIN"}).IsAdmin())
	assert.False(t, (&SessionData{Role: "USER"}).IsAdmin())
}
