// internal/pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "storefront-test"
	cfg.JWT.Secret = "test-secret-not-for-production"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func TestHashAndVerifyPassword(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	hash, err := pm.HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passphrase", hash)

	assert.NoError(t, pm.VerifyPassword("s3cret-passphrase", hash))
	assert.Error(t, pm.VerifyPassword("wrong", hash))
}

func TestHashPasswordRejectsShort(t *testing.T) {
	pm := NewPasswordManager(testConfig())

	_, err := pm.HashPassword("short")
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	jm := NewJWTManager(testConfig())

	token, err := jm.GenerateAccessToken(42, "alice", "user", "session-1")
	require.NoError(t, err)

	claims, err := jm.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "access", claims.TokenType)
}

func TestTokenTypeMismatch(t *testing.T) {
	jm := NewJWTManager(testConfig())

	refresh, err := jm.GenerateRefreshToken(42, "alice", "user", "session-1")
	require.NoError(t, err)

	_, err = jm.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = jm.ValidateRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	jm := NewJWTManager(testConfig())

	token, err := jm.GenerateAccessToken(42, "alice", "user", "session-1")
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "completely-different"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}
