package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "asha@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", "asha@example.com", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "another-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT("user-1", "asha@example.com", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, testSecret)
	assert.Error(t, err)
}
