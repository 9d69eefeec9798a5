// Package seed fills a fresh database with placeholder comments and the
// default categories.
package seed

import (
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"context"
	"errors"
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
)

// CommentsPerBlog is the number of placeholder comments created for each blog.
const CommentsPerBlog = 3

// Categories are created once per run, after the comments.
var Categories = []string{"Web development", "Data Science", "Python", "Django Security"}

// ErrNoBlogs is returned when there is nothing to attach comments to.
var ErrNoBlogs = errors.New("no blogs to seed comments for")

// BlogSource iterates the existing blogs.
type BlogSource interface {
	Each(ctx context.Context, fn func(*data.Blog) error) error
}

// CommentWriter bulk-inserts comments.
type CommentWriter interface {
	BulkCreate(ctx context.Context, comments []*data.Comment) error
}

// CategoryWriter creates categories.
type CategoryWriter interface {
	Save(ctx context.Context, category *data.Category) (int64, error)
}

// Result counts the rows a run created.
type Result struct {
	Blogs      int
	Comments   int
	Categories int
}

// Seeder creates the placeholder data.
type Seeder struct {
	blogs      BlogSource
	comments   CommentWriter
	categories CategoryWriter
	faker      *gofakeit.Faker
	log        logger.Logger
}

// New creates a Seeder. seed fixes the generated text; 0 picks a random seed.
func New(blogs BlogSource, comments CommentWriter, categories CategoryWriter, seed int64, log logger.Logger) *Seeder {
	return &Seeder{
		blogs:      blogs,
		comments:   comments,
		categories: categories,
		faker:      gofakeit.New(seed),
		log:        log,
	}
}

// Run adds CommentsPerBlog comments to every blog, one bulk insert per blog,
// then creates the default categories. The blog cursor is drained before the
// first insert: SQLite refuses writes while another connection holds a read.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var (
		res     Result
		blogIDs []int64
	)
	err := s.blogs.Each(ctx, func(blog *data.Blog) error {
		blogIDs = append(blogIDs, blog.ID)
		return nil
	})
	if err != nil {
		return res, err
	}
	if len(blogIDs) == 0 {
		return res, ErrNoBlogs
	}

	for _, id := range blogIDs {
		comments := make([]*data.Comment, CommentsPerBlog)
		for i := range comments {
			comments[i] = &data.Comment{
				BlogID:   id,
				Text:     s.faker.Paragraph(1, 4, 12, " "),
				IsActive: true,
			}
		}
		if err := s.comments.BulkCreate(ctx, comments); err != nil {
			return res, fmt.Errorf("blog %d: %w", id, err)
		}
		res.Blogs++
		res.Comments += len(comments)
	}
	s.log.With(map[string]interface{}{"blogs": res.Blogs, "comments": res.Comments}).Info("Seeded comments")

	for _, name := range Categories {
		if _, err := s.categories.Save(ctx, &data.Category{Name: name, IsActive: true}); err != nil {
			return res, fmt.Errorf("category %q: %w", name, err)
		}
		res.Categories++
	}
	s.log.With(map[string]interface{}{"categories": res.Categories}).Info("Seeded categories")
	return res, nil
}
