//go:build unit

package service

import (
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderingRepo records the ordering passed to List.
type orderingRepo struct {
	BlogRepository
	ordering []string
}

func (r *orderingRepo) Count(ctx context.Context, filter data.BlogFilter) (int64, error) {
	return 0, nil
}

func (r *orderingRepo) List(ctx context.Context, filter data.BlogFilter, opts data.ListOptions) ([]*data.BlogListItem, error) {
	r.ordering = opts.Ordering
	return nil, nil
}

func TestBlogService_DefaultOrdering(t *testing.T) {
	tests := []struct {
		name      string
		superuser bool
		ordering  []string
		want      []string
	}{
		{"staff", false, nil, []string{"title"}},
		{"superuser", true, nil, []string{"title", "-date_created"}},
		{"explicit sort wins", true, []string{"-comment_count"}, []string{"-comment_count"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &orderingRepo{}
			s := NewBlogService(repo, nil, nil)
			_, err := s.List(context.Background(), BlogQuery{Superuser: tc.superuser, Ordering: tc.ordering})
			require.NoError(t, err)
			assert.Equal(t, tc.want, repo.ordering)
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-go-world", Slugify("Hello Go World"))

	long := Slugify(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(long), maxSlugLen)
	assert.False(t, strings.HasSuffix(long, "-"))
}

func TestBlogService_RenderBody(t *testing.T) {
	s := NewBlogService(nil, nil, NewBodyRenderer(nil, logger.Nop()))

	out := string(s.RenderBody("# Title\n\n**bold** <script>alert(1)</script>"))
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.NotContains(t, out, "<script>")
}
