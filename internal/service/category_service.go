package service

import (
	"blog-admin/internal/data"
	"context"
	"strings"
)

// CategoryRepository defines the database operations for categories.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*data.Category, error)
	List(ctx context.Context, search string, opts data.ListOptions) ([]*data.Category, error)
	Count(ctx context.Context, search string) (int64, error)
	Save(ctx context.Context, category *data.Category) (int64, error)
	Update(ctx context.Context, category *data.Category) error
	GetByID(ctx context.Context, id int64) (*data.Category, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// CategoryServicer defines the interface for the category admin.
type CategoryServicer interface {
	List(ctx context.Context, q ListQuery) (*CategoryPage, error)
	All(ctx context.Context) ([]*data.Category, error)
	Get(ctx context.Context, id int64) (*data.Category, error)
	Create(ctx context.Context, in CategoryInput) (*data.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*data.Category, error)
	DeleteSelected(ctx context.Context, ids []int64) (int64, error)
}

// ListQuery selects one page of a change list searched by name.
type ListQuery struct {
	Search   string
	Ordering []string
	Page     int
	PerPage  int
}

// CategoryPage is one page of the category change list.
type CategoryPage struct {
	Rows []*data.Category
	Pagination
}

// CategoryInput carries the submitted category form.
type CategoryInput struct {
	Name     string
	IsActive bool
}

// CategoryService provides business logic for the category admin.
type CategoryService struct {
	repo CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List returns one page of categories.
func (s *CategoryService) List(ctx context.Context, q ListQuery) (*CategoryPage, error) {
	total, err := s.repo.Count(ctx, q.Search)
	if err != nil {
		return nil, err
	}
	page := NewPagination(q.Page, q.PerPage, total)
	rows, err := s.repo.List(ctx, q.Search, data.ListOptions{
		Ordering: q.Ordering,
		Limit:    page.PerPage,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &CategoryPage{Rows: rows, Pagination: page}, nil
}

// All returns every category, used for the blog form's choices.
func (s *CategoryService) All(ctx context.Context) ([]*data.Category, error) {
	return s.repo.GetAll(ctx)
}

// Get retrieves a single category.
func (s *CategoryService) Get(ctx context.Context, id int64) (*data.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new category.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*data.Category, error) {
	category := &data.Category{Name: strings.TrimSpace(in.Name), IsActive: in.IsActive}
	if err := validateStruct(category, ""); err != nil {
		return nil, err
	}
	if _, err := s.repo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update validates and saves an existing category.
func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryInput) (*data.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(in.Name)
	category.IsActive = in.IsActive
	if err := validateStruct(category, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteSelected removes the selected categories.
func (s *CategoryService) DeleteSelected(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.DeleteByIDs(ctx, ids)
}

var _ CategoryServicer = (*CategoryService)(nil)
