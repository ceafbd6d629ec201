package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func signExpired(t *testing.T, userID uint) string {
	t.Helper()
	past := time.Now().Add(-time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Minute)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestGenerateTokenPair_Claims(t *testing.T) {
	before := time.Now()
	tokens, err := GenerateTokenPair(42, "shopper@example.com", "customer", testSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
	assert.WithinDuration(t, before.Add(15*time.Minute), tokens.ExpiresAt, time.Second)

	access, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)
	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)

	for _, c := range []*Claims{access, refresh} {
		assert.Equal(t, uint(42), c.UserID)
		assert.Equal(t, "shopper@example.com", c.Email)
		assert.Equal(t, "customer", c.Role)
		assert.NotEmpty(t, c.ID)
	}
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID, "each token is revocable on its own")
}

func TestValidateToken_Rejects(t *testing.T) {
	tokens, err := GenerateTokenPair(1, "admin@example.com", "admin", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{"foreign secret", tokens.AccessToken, "another-secret", ErrInvalidToken},
		{"garbage", "invalid.token.format", testSecret, ErrInvalidToken},
		{"empty", "", testSecret, ErrInvalidToken},
		{"alg none", unsigned, testSecret, ErrInvalidToken},
		{"expired", signExpired(t, 1), testSecret, ErrExpiredToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestClaims_RemainingValidity(t *testing.T) {
	tokens, err := GenerateTokenPair(7, "shopper@example.com", "customer", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	refresh, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.InDelta(t, time.Hour.Seconds(), refresh.RemainingValidity().Seconds(), 5)

	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.Zero(t, past.RemainingValidity())
	assert.Zero(t, (&Claims{}).RemainingValidity())
}
