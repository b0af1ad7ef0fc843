package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/models"
	"github.com/nkchq/projectboard/internal/repository"
	"github.com/nkchq/projectboard/internal/session"
)

// AuthService verifies credentials and resolves identities.
type AuthService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, log *logger.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, log: log}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials against the stored bcrypt hash and returns the
// authenticated user. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.log.Warnw("login failed", "username", input.Username)
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// IdentityOf returns the session payload for a user.
func IdentityOf(user *models.User) session.Identity {
	return session.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
