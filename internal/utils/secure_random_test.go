package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		s, err := GenerateRandomDigits(10)
		require.NoError(t, err)
		assert.Len(t, s, 10)
		assert.NotEqual(t, byte('0'), s[0])
		for _, r := range s {
			assert.True(t, r >= '0' && r <= '9')
		}
	}

	_, err := GenerateRandomDigits(0)
	assert.Error(t, err)
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(4)
	require.NoError(t, err)
	assert.Len(t, s, 8)
}

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("teller-7", "secret-for-tests", 0, "ledger")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(token, "secret-for-tests")
	assert.Error(t, err, "zero expiry must be rejected as expired")

	token, err = GenerateJWT("teller-7", "secret-for-tests", time.Hour, "ledger")
	require.NoError(t, err)
	claims, err := ParseAndValidateJWT(token, "secret-for-tests")
	require.NoError(t, err)
	assert.Equal(t, "teller-7", claims.Subject)

	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}
