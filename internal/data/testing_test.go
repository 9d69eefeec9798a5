//go:build integration

package data

import (
	"blog-admin/internal/config"
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a migrated SQLite database in a temporary directory.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := NewDB(config.DBConfig{Driver: DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = ApplyMigrations(db)
	require.NoError(t, err)
	return db
}

func createBlog(t *testing.T, repo *BlogRepository, title string) *Blog {
	t.Helper()
	blog := &Blog{Title: title, Slug: title, Body: "body of " + title, IsDraft: true}
	require.NoError(t, repo.Create(context.Background(), blog))
	return blog
}

func boolPtr(b bool) *bool { return &b }
