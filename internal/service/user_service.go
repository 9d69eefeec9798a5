package service

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/data"
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserRepository defines the database operations for admin accounts.
type UserRepository interface {
	Create(ctx context.Context, user *data.AdminUser) error
	GetByID(ctx context.Context, id int64) (*data.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*data.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*data.AdminUser, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// UserServicer defines the interface for admin sign-in.
type UserServicer interface {
	Authenticate(ctx context.Context, username, password string) (*data.AdminUser, error)
	LoginByEmail(ctx context.Context, email string) (*data.AdminUser, error)
	Active(ctx context.Context, id int64) (*data.AdminUser, error)
}

// UserService authenticates admin accounts.
type UserService struct {
	repo UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Authenticate checks a username/password pair. Unknown users, inactive users
// and wrong passwords all yield auth.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*data.AdminUser, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, auth.ErrInvalidCredentials
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// LoginByEmail resolves a verified single sign-on email to an active account.
func (s *UserService) LoginByEmail(ctx context.Context, email string) (*data.AdminUser, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, auth.ErrInvalidCredentials
	}
	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Active returns the account for a session, or data.ErrNotFound when it no
// longer exists or was deactivated.
func (s *UserService) Active(ctx context.Context, id int64) (*data.AdminUser, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, data.ErrNotFound
	}
	return user, nil
}

// CreateSuperuser creates an active superuser account.
func (s *UserService) CreateSuperuser(ctx context.Context, username, email, password string) (*data.AdminUser, error) {
	user := &data.AdminUser{
		Username:    strings.TrimSpace(username),
		Email:       strings.TrimSpace(email),
		IsSuperuser: true,
		IsActive:    true,
	}
	verr := &ValidationError{}
	collect(verr, validateStruct(user, ""))
	if len(password) < 8 {
		verr.Add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if user.Username != "" {
		if _, err := s.repo.GetByUsername(ctx, user.Username); err == nil {
			verr.Add("username", "A user with that username already exists.")
		} else if !errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

var _ UserServicer = (*UserService)(nil)
