// internal/domain/user/service_test.go
package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{}
	cfg.Security.BcryptCost = bcrypt.MinCost
	return NewService(db, cfg)
}

func TestRegister(t *testing.T) {
	s := newTestService(t)

	u, err := s.Register(&RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.NotEqual(t, "correct horse", u.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register(&RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = s.Register(&RegisterRequest{Username: "bob", Email: "other@example.com", Password: "password1"})
	assert.True(t, errs.IsDuplicate(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register(&RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "password1"})
	require.NoError(t, err)

	// Emails are normalized to lowercase before insert, so a differently
	// cased duplicate still collides.
	_, err = s.Register(&RegisterRequest{Username: "carol2", Email: "CAROL@example.com", Password: "password1"})
	assert.True(t, errs.IsDuplicate(err))
}

func TestAuthenticate(t *testing.T) {
	s := newTestService(t)

	registered, err := s.Register(&RegisterRequest{Username: "dave", Email: "dave@example.com", Password: "hunter22hunter"})
	require.NoError(t, err)

	u, err := s.Authenticate("dave", "hunter22hunter")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	s := newTestService(t)

	_, err := s.Register(&RegisterRequest{Username: "eve", Email: "eve@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = s.Authenticate("eve", "password2")
	assert.True(t, errs.IsNotFound(err))
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s := newTestService(t)

	_, err := s.Authenticate("nobody", "password1")
	assert.True(t, errs.IsNotFound(err))
}

func TestGetByEmailCaseInsensitive(t *testing.T) {
	s := newTestService(t)

	registered, err := s.Register(&RegisterRequest{Username: "frank", Email: "frank@example.com", Password: "password1"})
	require.NoError(t, err)

	u, err := s.GetByEmail("FRANK@example.com")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
}
