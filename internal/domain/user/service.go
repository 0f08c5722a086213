// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/auth"
)

// Service handles user account business logic
type Service struct {
	db         *gorm.DB
	jwtManager *auth.JWTManager
	passwords  *auth.PasswordManager
	config     *config.Config
}

// NewService creates a new user service
func NewService(db *gorm.DB, jwtManager *auth.JWTManager, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		jwtManager: jwtManager,
		passwords:  auth.NewPasswordManager(cfg.Security.BcryptCost),
		config:     cfg,
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse bundles a user with fresh tokens
type AuthResponse struct {
	User   Response        `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// Register creates a new account and signs the user in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperr.NewValidation(err.Error(), "password")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("account %s: %w", email, apperr.ErrAlreadyExists)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Email:     email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.jwtManager.GenerateTokenPair(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: u.ToResponse(), Tokens: tokens}, nil
}

// Login verifies credentials and issues tokens. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var u User
	err := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrAuthRequired
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.passwords.VerifyPassword(u.Password, req.Password); err != nil {
		return nil, apperr.ErrAuthRequired
	}

	tokens, err := s.jwtManager.GenerateTokenPair(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: u.ToResponse(), Tokens: tokens}, nil
}

// GetProfile returns a user's profile
func (s *Service) GetProfile(ctx context.Context, userID uint) (*Response, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", fmt.Sprintf("%d", userID))
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	resp := u.ToResponse()
	return &resp, nil
}

// UpdateProfileRequest represents a partial profile update
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateProfile applies a partial update to a user's profile
func (s *Service) UpdateProfile(ctx context.Context, userID uint, req *UpdateProfileRequest) (*Response, error) {
	var u User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user", fmt.Sprintf("%d", userID))
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}

	if err := s.db.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	resp := u.ToResponse()
	return &resp, nil
}

// RefreshTokens exchanges a refresh token for a new pair
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	tokens, err := s.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, apperr.ErrAuthRequired
	}
	return tokens, nil
}
