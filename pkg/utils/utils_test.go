package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	ConfigureJWT("test-secret", time.Hour)

	token, err := GenerateJWT("admin", "ADMIN")
	require.NoError(t, err)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	ConfigureJWT("one", time.Hour)
	token, err := GenerateJWT("admin", "ADMIN")
	require.NoError(t, err)

	ConfigureJWT("two", time.Hour)
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "nope"))
}
