package service

import (
	"blog-admin/internal/data"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const maxSlugLen = 100

// BlogRepository defines the database operations the blog admin needs.
type BlogRepository interface {
	GetByID(ctx context.Context, id int64) (*data.Blog, error)
	Save(ctx context.Context, blog *data.Blog, rel data.BlogRelations) error
	List(ctx context.Context, filter data.BlogFilter, opts data.ListOptions) ([]*data.BlogListItem, error)
	Count(ctx context.Context, filter data.BlogFilter) (int64, error)
	DateBounds(ctx context.Context, filter data.BlogFilter) (first, last time.Time, ok bool, err error)
	Publish(ctx context.Context, ids []int64) (int64, error)
	Titles(ctx context.Context) ([]*data.Blog, error)
	CategoryIDs(ctx context.Context, blogID int64) ([]int64, error)
	ExistingCategoryIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// InlineCommentRepository defines the comment operations used by the blog
// change form.
type InlineCommentRepository interface {
	ListByBlog(ctx context.Context, blogID int64) ([]*data.Comment, error)
}

// BlogServicer defines the interface for the blog admin.
type BlogServicer interface {
	List(ctx context.Context, q BlogQuery) (*BlogPage, error)
	DateDrilldown(ctx context.Context, filter data.BlogFilter, sel DateSelection) ([]DateLink, error)
	Get(ctx context.Context, id int64) (*BlogDetail, error)
	Create(ctx context.Context, in BlogInput) (*data.Blog, error)
	Update(ctx context.Context, id int64, in BlogInput) (*data.Blog, error)
	Publish(ctx context.Context, ids []int64) (int64, error)
	Choices(ctx context.Context) ([]*data.Blog, error)
	RenderBody(body string) template.HTML
}

// BlogQuery selects one page of the blog change list.
type BlogQuery struct {
	Filter    data.BlogFilter
	Ordering  []string // empty means the default for the user
	Page      int
	PerPage   int
	Superuser bool
}

// BlogRow is a change list row with its computed columns.
type BlogRow struct {
	*data.BlogListItem
	DaysActive int
	Categories string
}

// BlogPage is one page of the blog change list.
type BlogPage struct {
	Rows []*BlogRow
	Pagination
}

// BlogDetail is everything the change form shows for an existing blog.
type BlogDetail struct {
	Blog        *data.Blog
	CategoryIDs []int64
	Comments    []*data.Comment
}

// InlineComment is one row of the comment inline on the blog form.
type InlineComment struct {
	ID       int64
	Text     string
	IsActive bool
	Delete   bool
}

func (c InlineComment) blank() bool {
	return c.ID == 0 && strings.TrimSpace(c.Text) == ""
}

// BlogInput carries the submitted blog change form.
type BlogInput struct {
	Title       string
	Slug        string
	Body        string
	IsDraft     bool
	CategoryIDs []int64
	Comments    []InlineComment
}

// BlogService provides business logic for the blog admin.
type BlogService struct {
	repo     BlogRepository
	comments InlineCommentRepository
	renderer *BodyRenderer
	now      func() time.Time
}

// NewBlogService creates a new BlogService.
func NewBlogService(repo BlogRepository, comments InlineCommentRepository, renderer *BodyRenderer) *BlogService {
	return &BlogService{
		repo:     repo,
		comments: comments,
		renderer: renderer,
		now:      data.Now,
	}
}

// DefaultBlogOrdering is title for staff; superusers additionally see the
// newest blogs first within a title.
func DefaultBlogOrdering(superuser bool) []string {
	if superuser {
		return []string{"title", "-date_created"}
	}
	return []string{"title"}
}

// PublishedMessage is the confirmation shown after the publish action.
func PublishedMessage(n int64) string {
	return fmt.Sprintf("The %d selected blogs have been published", n)
}

// List returns one page of blogs with the computed columns filled in.
func (s *BlogService) List(ctx context.Context, q BlogQuery) (*BlogPage, error) {
	total, err := s.repo.Count(ctx, q.Filter)
	if err != nil {
		return nil, err
	}
	page := NewPagination(q.Page, q.PerPage, total)

	ordering := q.Ordering
	if len(ordering) == 0 {
		ordering = DefaultBlogOrdering(q.Superuser)
	}
	items, err := s.repo.List(ctx, q.Filter, data.ListOptions{
		Ordering: ordering,
		Limit:    page.PerPage,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]*BlogRow, len(items))
	for i, item := range items {
		rows[i] = &BlogRow{
			BlogListItem: item,
			DaysActive:   item.DaysSinceCreation(now),
			Categories:   strings.Join(item.CategoryNames, ", "),
		}
	}
	return &BlogPage{Rows: rows, Pagination: page}, nil
}

// Get loads a blog with its categories and inline comments.
func (s *BlogService) Get(ctx context.Context, id int64) (*BlogDetail, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	categoryIDs, err := s.repo.CategoryIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BlogDetail{Blog: blog, CategoryIDs: categoryIDs, Comments: comments}, nil
}

// Create validates and stores a new blog with its categories and inline comments.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (*data.Blog, error) {
	blog := &data.Blog{IsDraft: in.IsDraft}
	applyBlogInput(blog, in)

	verr := &ValidationError{}
	collect(verr, validateStruct(blog, ""))
	if err := s.checkCategories(ctx, in.CategoryIDs, verr); err != nil {
		return nil, err
	}
	upserts, deletes := s.inlineChanges(in.Comments, nil, verr)
	if !verr.empty() {
		return nil, verr
	}

	rel := data.BlogRelations{CategoryIDs: in.CategoryIDs, Comments: upserts, DeleteComments: deletes}
	if err := s.repo.Save(ctx, blog, rel); err != nil {
		return nil, err
	}
	return blog, nil
}

// Update validates and saves an existing blog. date_created is left untouched.
func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput) (*data.Blog, error) {
	blog, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing, err := s.comments.ListByBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]bool, len(existing))
	for _, c := range existing {
		owned[c.ID] = true
	}

	blog.IsDraft = in.IsDraft
	applyBlogInput(blog, in)

	verr := &ValidationError{}
	collect(verr, validateStruct(blog, ""))
	if err := s.checkCategories(ctx, in.CategoryIDs, verr); err != nil {
		return nil, err
	}
	upserts, deletes := s.inlineChanges(in.Comments, owned, verr)
	if !verr.empty() {
		return nil, verr
	}

	rel := data.BlogRelations{CategoryIDs: in.CategoryIDs, Comments: upserts, DeleteComments: deletes}
	if err := s.repo.Save(ctx, blog, rel); err != nil {
		return nil, err
	}
	return blog, nil
}

func applyBlogInput(blog *data.Blog, in BlogInput) {
	blog.Title = strings.TrimSpace(in.Title)
	blog.Body = in.Body
	blog.Slug = strings.TrimSpace(in.Slug)
}

// Slugify turns text into a URL slug of at most 100 characters.
func Slugify(title string) string {
	s := slug.Make(title)
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	return s
}

// inlineChanges turns the inline rows into comment upserts and deletions.
// owned is nil for a blog that does not exist yet.
func (s *BlogService) inlineChanges(rows []InlineComment, owned map[int64]bool, verr *ValidationError) ([]*data.Comment, []int64) {
	var (
		upserts []*data.Comment
		deletes []int64
	)
	for i, row := range rows {
		if row.blank() {
			continue
		}
		prefix := fmt.Sprintf("comments-%d-", i)
		if row.ID != 0 && !owned[row.ID] {
			verr.Add(prefix+"id", "Select a valid choice.")
			continue
		}
		if row.Delete {
			if row.ID != 0 {
				deletes = append(deletes, row.ID)
			}
			continue
		}
		if strings.TrimSpace(row.Text) == "" {
			verr.Add(prefix+"text", "This field is required.")
			continue
		}
		upserts = append(upserts, &data.Comment{ID: row.ID, Text: row.Text, IsActive: row.IsActive})
	}
	return upserts, deletes
}

// checkCategories reports ids that do not name an existing category.
func (s *BlogService) checkCategories(ctx context.Context, ids []int64, verr *ValidationError) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.repo.ExistingCategoryIDs(ctx, ids)
	if err != nil {
		return err
	}
	reported := make(map[int64]bool)
	for _, id := range ids {
		if !found[id] && !reported[id] {
			reported[id] = true
			verr.Add("categories", fmt.Sprintf("Select a valid choice. %d is not one of the available choices.", id))
		}
	}
	return nil
}

// Publish marks the selected blogs as published and returns how many were updated.
func (s *BlogService) Publish(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.Publish(ctx, ids)
}

// Choices lists every blog for select inputs and the related-blog filter.
func (s *BlogService) Choices(ctx context.Context) ([]*data.Blog, error) {
	return s.repo.Titles(ctx)
}

// RenderBody returns the sanitized HTML preview of a blog body.
func (s *BlogService) RenderBody(body string) template.HTML {
	return s.renderer.Render(body)
}

// collect merges err into verr when it is a validation error. Other errors
// cannot occur for plain struct validation.
func collect(verr *ValidationError, err error) {
	if err == nil {
		return
	}
	if v, ok := AsValidationError(err); ok {
		for field, msgs := range v.Fields {
			for _, msg := range msgs {
				verr.Add(field, msg)
			}
		}
		return
	}
	verr.Add("__all__", err.Error())
}

var _ BlogServicer = (*BlogService)(nil)
