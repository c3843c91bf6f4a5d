package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$v=19$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsEveryCall(t *testing.T) {
	first, err := HashPassword("same input")
	require.NoError(t, err)
	second, err := HashPassword("same input")
	require.NoError(t, err)
	assert.NotEqual(t, string(first), string(second))
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"plaintext",
		"$bcrypt$whatever",
		"$argon2id$v=18$t=3,m=65536,p=2$c2FsdA$aGFzaA",
	} {
		_, err := VerifyPassword("anything", []byte(bad))
		assert.Error(t, err, "hash %q should be rejected", bad)
	}
}

func TestGenerateOTPShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestHashOTPIsDeterministic(t *testing.T) {
	assert.Equal(t, HashOTP("123456"), HashOTP("123456"))
	assert.NotEqual(t, HashOTP("123456"), HashOTP("654321"))
	assert.Len(t, HashOTP("123456"), 64)
}

func TestGenerateResetToken(t *testing.T) {
	token, digest, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, HashOTP(token), digest)

	other, _, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
