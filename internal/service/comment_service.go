package service

import (
	"blog-admin/internal/data"
	"context"
	"io"
	"strings"
)

// CommentRepository defines the database operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *data.Comment) error
	GetByID(ctx context.Context, id int64) (*data.CommentListItem, error)
	Update(ctx context.Context, comment *data.Comment) error
	List(ctx context.Context, filter data.CommentFilter, opts data.ListOptions) ([]*data.CommentListItem, error)
	Count(ctx context.Context, filter data.CommentFilter) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	SaveBatch(ctx context.Context, blogID int64, upserts []*data.Comment, deleteIDs []int64) error
}

// BlogLookup reports which blog ids exist.
type BlogLookup interface {
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// CommentServicer defines the interface for the comment admin.
type CommentServicer interface {
	List(ctx context.Context, q CommentQuery) (*CommentPage, error)
	Get(ctx context.Context, id int64) (*data.CommentListItem, error)
	Create(ctx context.Context, in CommentInput) (*data.Comment, error)
	Update(ctx context.Context, id int64, in CommentInput) (*data.Comment, error)
	DeleteSelected(ctx context.Context, ids []int64) (int64, error)
	Export(ctx context.Context, filter data.CommentFilter, format Format, w io.Writer) error
	Import(ctx context.Context, format Format, r io.Reader, dryRun bool) (*ImportResult, error)
}

// CommentQuery selects one page of the comment change list.
type CommentQuery struct {
	Filter   data.CommentFilter
	Ordering []string
	Page     int
	PerPage  int
}

// CommentPage is one page of the comment change list.
type CommentPage struct {
	Rows []*data.CommentListItem
	Pagination
}

// CommentInput carries the submitted comment change form.
type CommentInput struct {
	BlogID   int64
	Text     string
	IsActive bool
}

// CommentService provides business logic for the comment admin.
type CommentService struct {
	repo  CommentRepository
	blogs BlogLookup
}

// NewCommentService creates a new CommentService.
func NewCommentService(repo CommentRepository, blogs BlogLookup) *CommentService {
	return &CommentService{repo: repo, blogs: blogs}
}

// List returns one page of comments.
func (s *CommentService) List(ctx context.Context, q CommentQuery) (*CommentPage, error) {
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	page := NewPagination(q.Page, q.PerPage, total)
	rows, err := s.repo.List(ctx, q.Filter, data.ListOptions{
		Ordering: q.Ordering,
		Limit:    page.PerPage,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &CommentPage{Rows: rows, Pagination: page}, nil
}

// Get retrieves a single comment.
func (s *CommentService) Get(ctx context.Context, id int64) (*data.CommentListItem, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new comment.
func (s *CommentService) Create(ctx context.Context, in CommentInput) (*data.Comment, error) {
	comment := &data.Comment{BlogID: in.BlogID, Text: strings.TrimSpace(in.Text), IsActive: in.IsActive}
	if err := s.validate(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update validates and saves an existing comment.
func (s *CommentService) Update(ctx context.Context, id int64, in CommentInput) (*data.Comment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comment := existing.Comment
	comment.BlogID = in.BlogID
	comment.Text = strings.TrimSpace(in.Text)
	comment.IsActive = in.IsActive
	if err := s.validate(ctx, &comment); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentService) validate(ctx context.Context, comment *data.Comment) error {
	verr := &ValidationError{}
	collect(verr, validateStruct(comment, ""))
	if comment.BlogID > 0 {
		found, err := s.blogs.ExistingIDs(ctx, []int64{comment.BlogID})
		if err != nil {
			return err
		}
		if !found[comment.BlogID] {
			verr.Add("blog_id", "Select a valid choice.")
		}
	}
	if !verr.empty() {
		return verr
	}
	return nil
}

// DeleteSelected removes the selected comments.
func (s *CommentService) DeleteSelected(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.DeleteByIDs(ctx, ids)
}

var _ CommentServicer = (*CommentService)(nil)
