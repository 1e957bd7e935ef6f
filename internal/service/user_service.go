package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saketjha34/FileForge/internal/domain"
	"github.com/saketjha34/FileForge/internal/platform/crypto"
	"github.com/saketjha34/FileForge/internal/store"
)

// UserService defines the interface for registration and authentication.
// We define an interface to allow for mock implementations in tests.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, err error)
}

// userService is the concrete implementation of the UserService interface.
type userService struct {
	users    store.UserStore
	passSvc  crypto.PasswordManager
	tokenSvc crypto.TokenManager
}

// NewUserService creates a new instance of the user service.
func NewUserService(users store.UserStore, ps crypto.PasswordManager, ts crypto.TokenManager) UserService {
	return &userService{
		users:    users,
		passSvc:  ps,
		tokenSvc: ts,
	}
}

// Register handles the business logic for creating a new user.
func (s *userService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidArgument)
	}

	hash, err := s.passSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown usernames
// and wrong passwords both come back as ErrInvalidCredentials; anything else
// is an infrastructure failure and propagates as-is.
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.passSvc.Compare(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokenSvc.Generate(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
