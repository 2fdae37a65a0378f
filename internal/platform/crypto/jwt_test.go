package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken(testSecret, "user-1", "user", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Sub)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := GenerateToken(testSecret, "user-1", "user", -time.Minute)
	require.NoError(t, err)

	otherIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Sub: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Sub: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	valid, err := GenerateToken(testSecret, "user-1", "user", time.Minute)
	require.NoError(t, err)

	tests := map[string]struct {
		secret string
		token  string
	}{
		"expired":      {testSecret, expired},
		"wrong secret": {"other", valid},
		"wrong issuer": {testSecret, otherIssuer},
		"none alg":     {testSecret, noneAlg},
		"garbage":      {testSecret, "not.a.token"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Test123!@#")
	require.NoError(t, err)
	assert.NotEqual(t, "Test123!@#", hash)
	assert.True(t, VerifyPassword(hash, "Test123!@#"))
	assert.False(t, VerifyPassword(hash, "Test123!@$"))
}
