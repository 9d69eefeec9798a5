//go:build integration

package seed

import (
	"blog-admin/internal/config"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "seed.db") + "?_foreign_keys=on"
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = data.ApplyMigrations(db)
	require.NoError(t, err)
	return db
}

func TestSeeder_Run(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	blogs := data.NewBlogRepository(db)
	comments := data.NewCommentRepository(db)
	categories := data.NewCategoryRepository(db)

	const n = 4
	for i := 0; i < n; i++ {
		blog := &data.Blog{Title: "blog", Slug: "blog", Body: "body"}
		require.NoError(t, blogs.Create(ctx, blog))
	}

	res, err := New(blogs, comments, categories, 42, logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Blogs: n, Comments: n * CommentsPerBlog, Categories: len(Categories)}, res)

	total, err := comments.Count(ctx, data.CommentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(n*CommentsPerBlog), total)

	all, err := comments.List(ctx, data.CommentFilter{}, data.ListOptions{})
	require.NoError(t, err)
	perBlog := make(map[int64]int)
	for _, c := range all {
		assert.NotEmpty(t, c.Text)
		perBlog[c.BlogID]++
	}
	assert.Len(t, perBlog, n)
	for id, count := range perBlog {
		assert.Equal(t, CommentsPerBlog, count, "blog %d", id)
	}

	cats, err := categories.GetAll(ctx)
	require.NoError(t, err)
	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, Categories, names)
}

func TestSeeder_NoBlogs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	categories := data.NewCategoryRepository(db)

	_, err := New(data.NewBlogRepository(db), data.NewCommentRepository(db), categories, 1, logger.Nop()).Run(ctx)
	assert.True(t, errors.Is(err, ErrNoBlogs))

	cats, err := categories.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

type failingComments struct{}

func (failingComments) BulkCreate(context.Context, []*data.Comment) error {
	return errors.New("disk full")
}

func TestSeeder_CommentFailureStops(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	blogs := data.NewBlogRepository(db)
	require.NoError(t, blogs.Create(ctx, &data.Blog{Title: "t", Slug: "t", Body: "b"}))

	_, err := New(blogs, failingComments{}, data.NewCategoryRepository(db), 1, logger.Nop()).Run(ctx)
	assert.ErrorContains(t, err, "disk full")
}
