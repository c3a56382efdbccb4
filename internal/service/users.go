package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/homehub/internal/models"
)

// ErrInvalidCredentials is returned when a username or password is empty.
var ErrInvalidCredentials = errors.New("username and password are required")

// UserRepository defines the persistence operations
// required by the user service.
type UserRepository interface {
	// UserExists returns true if a user with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// Create stores a new user. Duplicate usernames fail.
	Create(ctx context.Context, username, password string) (models.User, error)
	// GetByUsername returns the user, or nil when it does not exist.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// UserService manages application users by delegating
// to a UserRepository.
type UserService struct {
	repo UserRepository
}

// NewUserService constructs a new UserService using the provided repository.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// UserExists checks whether a user with the specified username exists.
func (s *UserService) UserExists(ctx context.Context, username string) (bool, error) {
	return s.repo.UserExists(ctx, strings.TrimSpace(username))
}

// RegisterUser creates a user. Surrounding whitespace in the username is
// ignored.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user, err := s.repo.Create(ctx, username, password)
	if err != nil {
		return models.User{}, fmt.Errorf("register user %q: %w", username, err)
	}
	return user, nil
}

// GetByUsername looks a user up by name.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}
