package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "admin", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Empty(t, claims.Purpose)
}

func TestOTPTokenCarriesPurpose(t *testing.T) {
	token, err := GenerateOTPToken("secret", "user-1", 10*time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, TokenPurposeOTP, claims.Purpose)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "user", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "user-1", "user", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret")
	assert.Error(t, err)
}
