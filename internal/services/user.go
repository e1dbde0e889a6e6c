package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krushiiq/apiserver/internal/auth"
	"github.com/krushiiq/apiserver/internal/store"
	"github.com/krushiiq/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// UserService registers users and exchanges credentials for tokens.
type UserService struct {
	repo   UserRepository
	tokens *auth.Issuer
}

func NewUserService(repo UserRepository, tokens *auth.Issuer) *UserService {
	return &UserService{repo: repo, tokens: tokens}
}

// Register stores a new user and returns its id.
func (s *UserService) Register(ctx context.Context, username, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return "", newError(ErrConflict, "User already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("check user: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, store.ErrDuplicate) {
			return "", newError(ErrConflict, "User already exists")
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

// Login verifies the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", newError(ErrUnauthorized, "Invalid credentials")
		}
		return "", fmt.Errorf("load user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", newError(ErrUnauthorized, "Invalid credentials")
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate validates a bearer token and returns its user id.
func (s *UserService) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", newError(ErrUnauthorized, "unauthorized")
	}
	return claims.UserID, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, newError(ErrUnauthorized, "unauthorized")
		}
		return types.User{}, err
	}
	return user, nil
}
