//go:build unit

package seed

import (
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cursorBlogs reports whether Each is still iterating.
type cursorBlogs struct {
	ids  []int64
	open bool
}

func (c *cursorBlogs) Each(_ context.Context, fn func(*data.Blog) error) error {
	c.open = true
	defer func() { c.open = false }()
	for _, id := range c.ids {
		if err := fn(&data.Blog{ID: id}); err != nil {
			return err
		}
	}
	return nil
}

type recordingComments struct {
	source       *cursorBlogs
	insertedOpen bool
	batches      int
}

func (r *recordingComments) BulkCreate(context.Context, []*data.Comment) error {
	if r.source.open {
		r.insertedOpen = true
	}
	r.batches++
	return nil
}

type discardCategories struct{}

func (discardCategories) Save(context.Context, *data.Category) (int64, error) { return 1, nil }

func TestSeeder_InsertsAfterCursorCloses(t *testing.T) {
	source := &cursorBlogs{ids: []int64{1, 2, 3}}
	writer := &recordingComments{source: source}

	res, err := New(source, writer, discardCategories{}, 7, logger.Nop()).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, writer.insertedOpen, "comments were inserted while blogs were still being read")
	assert.Equal(t, 3, writer.batches)
	assert.Equal(t, 3*CommentsPerBlog, res.Comments)
}
