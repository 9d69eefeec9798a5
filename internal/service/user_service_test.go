//go:build integration

package service

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/data"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateSuperuserAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := NewUserService(env.users)

	user, err := s.CreateSuperuser(ctx, "admin", "admin@example.com", "correct horse")
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	got, err := s.Authenticate(ctx, "admin", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	stored, err := env.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)

	_, err = s.Authenticate(ctx, "admin", "wrong")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	_, err = s.Authenticate(ctx, "nobody", "correct horse")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))

	byEmail, err := s.LoginByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserService_CreateSuperuserValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := NewUserService(env.users)

	_, err := s.CreateSuperuser(ctx, "admin", "not-an-email", "short")
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	_, err = s.CreateSuperuser(ctx, "admin", "", "long enough")
	require.NoError(t, err)
	_, err = s.CreateSuperuser(ctx, "admin", "", "long enough")
	verr, ok = AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "username")
}

func TestUserService_InactiveUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := NewUserService(env.users)

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	user := &data.AdminUser{Username: "gone", Email: "gone@example.com", PasswordHash: hash, IsActive: false}
	require.NoError(t, env.users.Create(ctx, user))

	_, err = s.Authenticate(ctx, "gone", "password123")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	_, err = s.LoginByEmail(ctx, "gone@example.com")
	assert.True(t, errors.Is(err, auth.ErrInvalidCredentials))
	_, err = s.Active(ctx, user.ID)
	assert.True(t, errors.Is(err, data.ErrNotFound))
}
