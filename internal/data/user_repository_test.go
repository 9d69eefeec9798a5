//go:build integration

package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	user := &AdminUser{Username: "admin", Email: "admin@example.com", PasswordHash: "hash", IsSuperuser: true, IsActive: true}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byName, err := repo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, byName.IsSuperuser)
	assert.Nil(t, byName.LastLogin)

	require.NoError(t, repo.TouchLastLogin(ctx, user.ID))
	byEmail, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail.LastLogin)

	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Create(ctx, &AdminUser{Username: "admin", PasswordHash: "x", IsActive: true})
	assert.Error(t, err, "usernames are unique")
}
