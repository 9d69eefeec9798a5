//go:build integration

package data

import (
	"blog-admin/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)

	version, err := ApplyMigrations(db)
	require.NoError(t, err, "re-applying migrations is a no-op")
	assert.Equal(t, uint(3), version)

	for _, table := range []string{"blogs", "comments", "categories", "blog_categories", "places", "admin_users", "sessions"} {
		var n int
		err := db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s should exist", table)
	}
}

func TestMigrateTo_DropsPlaces(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, MigrateTo(db, 1))

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'places'"))
	assert.Equal(t, 0, n)

	version, err := ApplyMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(3), version)
}

func TestNewDB_UnsupportedDriver(t *testing.T) {
	_, err := NewDB(config.DBConfig{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)
}
