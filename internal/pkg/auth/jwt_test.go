package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippydrip/storefront-backend/internal/config"
)

func newTestManager() *JWTManager {
	return NewJWTManager(&config.JWTConfig{
		Secret:             "test-secret-key-at-least-32-chars-long!!",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	m := newTestManager()

	pair, err := m.GenerateTokenPair(42, "drip@example.com", false)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "drip@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.False(t, claims.IsAdmin)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateTokenPair(1, "a@example.com", false)
	require.NoError(t, err)

	other := NewJWTManager(&config.JWTConfig{
		Secret:             "a-completely-different-32-char-secret!!!",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: time.Hour,
	})
	_, err = other.ValidateToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := newTestManager()
	_, err := m.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateTokenPair(7, "b@example.com", true)
	require.NoError(t, err)

	fresh, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ValidateToken(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	m := newTestManager()
	pair, err := m.GenerateTokenPair(7, "b@example.com", false)
	require.NoError(t, err)

	_, err = m.RefreshAccessToken(pair.AccessToken)
	assert.Error(t, err, "an access token must not mint new pairs")
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("Basic abc123")
	assert.Error(t, err)

	_, err = ExtractTokenFromHeader("abc123")
	assert.Error(t, err)
}

func TestPasswordHashAndVerify(t *testing.T) {
	pm := NewPasswordManager(4) // low cost for tests

	hash, err := pm.HashPassword("trippy123")
	require.NoError(t, err)
	assert.NotEqual(t, "trippy123", hash)

	assert.NoError(t, pm.VerifyPassword(hash, "trippy123"))
	assert.Error(t, pm.VerifyPassword(hash, "wrong"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("trippy123"))
	assert.Error(t, ValidatePasswordStrength("short1"))
	assert.Error(t, ValidatePasswordStrength("allletters"))
	assert.Error(t, ValidatePasswordStrength("12345678"))
}
