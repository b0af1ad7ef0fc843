package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nkchq/projectboard/internal/constants"
	"github.com/nkchq/projectboard/internal/logger"
	"github.com/nkchq/projectboard/internal/models"
	"github.com/nkchq/projectboard/internal/policy"
	"github.com/nkchq/projectboard/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService handles account management. Every operation is gated on the
// super-admin tier before any mutation is attempted.
type UserService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, log *logger.Logger) *UserService {
	return &UserService{userRepo: userRepo, log: log}
}

// ListUsers returns every account, newest first.
func (s *UserService) ListUsers(actor policy.Actor) ([]models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrForbidden
	}
	return s.userRepo.List()
}

// CreateUserInput represents input for creating an account.
type CreateUserInput struct {
	Username string
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// CreateUser creates an account with a bcrypt-hashed password.
func (s *UserService) CreateUser(actor policy.Actor, input CreateUserInput) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrForbidden
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, ErrEmailInvalid
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}

	user := &models.User{
		Username:     username,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Infow("user created", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return user, nil
}

// UpdateUserInput represents input for updating an account. Nil fields are
// left untouched; an empty Password keeps the current hash.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password string
	Role     *models.Role
}

// UpdateUser updates an account.
func (s *UserService) UpdateUser(actor policy.Actor, id uint64, input UpdateUserInput) (*models.User, error) {
	if !policy.CanManageUsers(actor) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		if !emailPattern.MatchString(*input.Email) {
			return nil, ErrEmailInvalid
		}
		user.Email = *input.Email
	}
	if input.Role != nil {
		if *input.Role == models.RoleAdmin || *input.Role == models.RoleUser {
			user.Role = *input.Role
		}
	}
	if input.Password != "" {
		if len(input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account. The super-admin cannot delete itself.
func (s *UserService) DeleteUser(actor policy.Actor, id uint64) error {
	if !policy.CanDeleteUser(actor, id) {
		return ErrForbidden
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Infow("user deleted", "user_id", id, "by", actor.Username)
	return nil
}
