//go:build integration

package service

import (
	"blog-admin/internal/config"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db         *sqlx.DB
	blogs      *data.BlogRepository
	comments   *data.CommentRepository
	categories *data.CategoryRepository
	places     *data.PlaceRepository
	users      *data.UserRepository
}

// newTestEnv creates a migrated SQLite database in a temporary directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = data.ApplyMigrations(db)
	require.NoError(t, err)

	return &testEnv{
		db:         db,
		blogs:      data.NewBlogRepository(db),
		comments:   data.NewCommentRepository(db),
		categories: data.NewCategoryRepository(db),
		places:     data.NewPlaceRepository(db),
		users:      data.NewUserRepository(db),
	}
}

func (e *testEnv) blogService() *BlogService {
	return NewBlogService(e.blogs, e.comments, NewBodyRenderer(nil, logger.Nop()))
}

func (e *testEnv) createBlog(t *testing.T, title string) *data.Blog {
	t.Helper()
	blog := &data.Blog{Title: title, Slug: title, Body: "body", IsDraft: true}
	require.NoError(t, e.blogs.Create(context.Background(), blog))
	return blog
}

func (e *testEnv) createComment(t *testing.T, blogID int64, text string) *data.Comment {
	t.Helper()
	c := &data.Comment{BlogID: blogID, Text: text, IsActive: true}
	require.NoError(t, e.comments.Create(context.Background(), c))
	return c
}
