package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var categoryColumns = map[string]string{
	"name":      "name",
	"is_active": "is_active",
}

// CategoryRepository handles database operations for categories.
type CategoryRepository struct {
	DB *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

// FindByName finds a category by its exact name.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT id, name, is_active FROM categories WHERE name = ? ORDER BY id LIMIT 1", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return &category, nil
}

// GetAll retrieves all categories ordered by name.
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*Category, error) {
	var categories []*Category
	err := r.DB.SelectContext(ctx, &categories, "SELECT id, name, is_active FROM categories ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// List returns one page of categories, optionally filtered by a name substring.
func (r *CategoryRepository) List(ctx context.Context, search string, opts ListOptions) ([]*Category, error) {
	where, args := nameSearch(search)
	query := "SELECT id, name, is_active FROM categories" + where + orderBy(opts.Ordering, categoryColumns, "id")
	query, args = paginate(query, args, opts)

	var categories []*Category
	if err := r.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Count returns the number of categories matching the search.
func (r *CategoryRepository) Count(ctx context.Context, search string) (int64, error) {
	where, args := nameSearch(search)
	var n int64
	if err := r.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM categories"+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return n, nil
}

// Save creates a new category and returns its ID.
func (r *CategoryRepository) Save(ctx context.Context, category *Category) (int64, error) {
	res, err := r.DB.NamedExecContext(ctx, "INSERT INTO categories (name, is_active) VALUES (:name, :is_active)", category)
	if err != nil {
		return 0, fmt.Errorf("failed to insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	category.ID = id
	return id, nil
}

// Update saves a category's name and active flag.
func (r *CategoryRepository) Update(ctx context.Context, category *Category) error {
	res, err := r.DB.NamedExecContext(ctx, "UPDATE categories SET name = :name, is_active = :is_active WHERE id = :id", category)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID finds a category by its ID.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*Category, error) {
	var category Category
	err := r.DB.GetContext(ctx, &category, "SELECT id, name, is_active FROM categories WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return &category, nil
}

// DeleteByIDs removes categories; their blog links cascade.
func (r *CategoryRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	return deleteByIDs(ctx, r.DB, "categories", ids)
}

func nameSearch(search string) (string, []interface{}) {
	if search == "" {
		return "", nil
	}
	return " WHERE LOWER(name) LIKE ? ESCAPE '!'", []interface{}{likePattern(search)}
}
