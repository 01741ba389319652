// internal/domain/user/service.go
package user

import (
	"fmt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/errs"
	"gorm.io/gorm"
)

// Service handles user accounts
type Service struct {
	db        *gorm.DB
	config    *config.Config
	passwords *auth.PasswordManager
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		passwords: auth.NewPasswordManager(cfg),
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a new account with a hashed password. Returns
// errs.ErrDuplicate when the username or email is already taken.
func (s *Service) Register(req *RegisterRequest) (*User, error) {
	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Role:     RoleUser,
	}

	if err := s.db.Create(&u).Error; err != nil {
		return nil, errs.Translate(err)
	}

	return &u, nil
}

// Authenticate verifies credentials by username and returns the account.
// Returns errs.ErrNotFound for an unknown username or a wrong password so
// callers cannot distinguish the two.
func (s *Service) Authenticate(username, password string) (*User, error) {
	u, err := s.GetByUsername(username)
	if err != nil {
		return nil, err
	}

	if err := s.passwords.VerifyPassword(password, u.Password); err != nil {
		return nil, errs.ErrNotFound
	}

	return u, nil
}

// GetByID retrieves a user by primary key
func (s *Service) GetByID(id uint) (*User, error) {
	var u User
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &u, nil
}

// GetByUsername retrieves a user by unique username
func (s *Service) GetByUsername(username string) (*User, error) {
	var u User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by unique email (stored lowercased)
func (s *Service) GetByEmail(email string) (*User, error) {
	var u User
	if err := s.db.Where("email = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, errs.Translate(err)
	}
	return &u, nil
}
