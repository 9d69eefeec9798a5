package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// BlogFilter narrows the blog change list.
type BlogFilter struct {
	Search      string     // substring of the title
	IsDraft     *bool      // nil means any
	CreatedFrom *time.Time // inclusive
	CreatedTo   *time.Time // exclusive
}

var blogColumns = map[string]string{
	"title":         "b.title",
	"date_created":  "b.date_created",
	"last_modified": "b.last_modified",
	"is_draft":      "b.is_draft",
	"slug":          "b.slug",
	"comment_count": "comment_count",
}

// BlogRepository handles database operations for blogs.
type BlogRepository struct {
	db *sqlx.DB
}

// NewBlogRepository creates a new BlogRepository.
func NewBlogRepository(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// BlogRelations are the rows saved together with a blog from its change form.
type BlogRelations struct {
	CategoryIDs    []int64
	Comments       []*Comment // zero ids are created; all are attached to the blog
	DeleteComments []int64
}

// Create inserts a blog and stamps both timestamps.
func (r *BlogRepository) Create(ctx context.Context, blog *Blog) error {
	return insertBlog(ctx, r.db, blog)
}

func insertBlog(ctx context.Context, ext sqlx.ExtContext, blog *Blog) error {
	now := Now()
	blog.DateCreated = now
	blog.LastModified = now

	query := `INSERT INTO blogs (title, body, date_created, last_modified, is_draft, slug)
		VALUES (:title, :body, :date_created, :last_modified, :is_draft, :slug)`
	res, err := sqlx.NamedExecContext(ctx, ext, query, blog)
	if err != nil {
		return fmt.Errorf("failed to insert blog: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read blog id: %w", err)
	}
	blog.ID = id
	return nil
}

// Save inserts the blog when its id is zero and updates it otherwise, then
// replaces its categories and applies the inline comment changes. Everything
// commits in one transaction; on failure a new blog keeps a zero id.
func (r *BlogRepository) Save(ctx context.Context, blog *Blog, rel BlogRelations) error {
	created := blog.ID == 0
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := saveBlog(ctx, tx, blog, rel); err != nil {
		if created {
			blog.ID = 0
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		if created {
			blog.ID = 0
		}
		return fmt.Errorf("failed to commit blog: %w", err)
	}
	return nil
}

func saveBlog(ctx context.Context, tx *sqlx.Tx, blog *Blog, rel BlogRelations) error {
	var err error
	if blog.ID == 0 {
		err = insertBlog(ctx, tx, blog)
	} else {
		err = updateBlog(ctx, tx, blog)
	}
	if err != nil {
		return err
	}
	if err := setCategories(ctx, tx, blog.ID, rel.CategoryIDs); err != nil {
		return err
	}
	for _, c := range rel.Comments {
		c.BlogID = blog.ID
	}
	return applyComments(ctx, tx, blog.ID, rel.Comments, rel.DeleteComments)
}

// GetByID retrieves a single blog.
func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*Blog, error) {
	var blog Blog
	query := `SELECT id, title, body, date_created, last_modified, is_draft, slug FROM blogs WHERE id = ?`
	if err := r.db.GetContext(ctx, &blog, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog by id: %w", err)
	}
	return &blog, nil
}

// Update saves the editable fields and refreshes last_modified.
// date_created is never written after insert.
func (r *BlogRepository) Update(ctx context.Context, blog *Blog) error {
	return updateBlog(ctx, r.db, blog)
}

func updateBlog(ctx context.Context, ext sqlx.ExtContext, blog *Blog) error {
	blog.LastModified = Now()
	query := `UPDATE blogs SET title = :title, body = :body, is_draft = :is_draft, slug = :slug,
		last_modified = :last_modified WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, ext, query, blog)
	if err != nil {
		return fmt.Errorf("failed to update blog: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (f BlogFilter) where() (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Search != "" {
		conds = append(conds, "LOWER(b.title) LIKE ? ESCAPE '!'")
		args = append(args, likePattern(f.Search))
	}
	if f.IsDraft != nil {
		conds = append(conds, "b.is_draft = ?")
		args = append(args, *f.IsDraft)
	}
	if f.CreatedFrom != nil {
		conds = append(conds, "b.date_created >= ?")
		args = append(args, f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		conds = append(conds, "b.date_created < ?")
		args = append(args, f.CreatedTo.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of blogs annotated with their comment count and
// category names.
func (r *BlogRepository) List(ctx context.Context, filter BlogFilter, opts ListOptions) ([]*BlogListItem, error) {
	where, args := filter.where()
	query := `SELECT b.id, b.title, b.date_created, b.last_modified, b.is_draft, b.slug,
			COUNT(c.id) AS comment_count
		FROM blogs b
		LEFT JOIN comments c ON c.blog_id = b.id` + where + `
		GROUP BY b.id, b.title, b.date_created, b.last_modified, b.is_draft, b.slug` +
		orderBy(opts.Ordering, blogColumns, "b.id")
	query, args = paginate(query, args, opts)

	var items []*BlogListItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list blogs: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	names, err := r.CategoryNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		item.CategoryNames = names[item.ID]
	}
	return items, nil
}

// Count returns the number of blogs matching the filter.
func (r *BlogRepository) Count(ctx context.Context, filter BlogFilter) (int64, error) {
	where, args := filter.where()
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM blogs b"+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count blogs: %w", err)
	}
	return n, nil
}

// DateBounds returns the earliest and latest creation times matching the
// filter, used to build the date drill-down. ok is false when nothing matches.
func (r *BlogRepository) DateBounds(ctx context.Context, filter BlogFilter) (first, last time.Time, ok bool, err error) {
	where, args := filter.where()
	base := "SELECT b.date_created FROM blogs b" + where + " ORDER BY b.date_created "

	if err := r.db.GetContext(ctx, &first, base+"ASC LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, time.Time{}, false, nil
		}
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to get earliest blog date: %w", err)
	}
	if err := r.db.GetContext(ctx, &last, base+"DESC LIMIT 1", args...); err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to get latest blog date: %w", err)
	}
	return first, last, true, nil
}

// Publish clears the draft flag on the given blogs and returns how many rows matched.
// Like a queryset update it leaves last_modified untouched.
func (r *BlogRepository) Publish(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("UPDATE blogs SET is_draft = ? WHERE id IN (?)", false, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build publish query: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to publish blogs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// Each streams every blog ordered by id to fn without loading the table in memory.
func (r *BlogRepository) Each(ctx context.Context, fn func(*Blog) error) error {
	rows, err := r.db.QueryxContext(ctx, `SELECT id, title, body, date_created, last_modified, is_draft, slug FROM blogs ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to iterate blogs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blog Blog
		if err := rows.StructScan(&blog); err != nil {
			return fmt.Errorf("failed to scan blog: %w", err)
		}
		if err := fn(&blog); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ExistingIDs returns the subset of ids that exist.
func (r *BlogRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return existingIDs(ctx, r.db, "blogs", ids)
}

// ExistingCategoryIDs returns the subset of category ids that exist.
func (r *BlogRepository) ExistingCategoryIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return existingIDs(ctx, r.db, "categories", ids)
}

// Titles returns id/title pairs for every blog, ordered by title, for filter and form choices.
func (r *BlogRepository) Titles(ctx context.Context) ([]*Blog, error) {
	var blogs []*Blog
	if err := r.db.SelectContext(ctx, &blogs, "SELECT id, title FROM blogs ORDER BY title, id"); err != nil {
		return nil, fmt.Errorf("failed to list blog titles: %w", err)
	}
	return blogs, nil
}

// CategoryNames maps each blog id to its category names, sorted.
func (r *BlogRepository) CategoryNames(ctx context.Context, blogIDs []int64) (map[int64][]string, error) {
	names := make(map[int64][]string, len(blogIDs))
	if len(blogIDs) == 0 {
		return names, nil
	}
	query, args, err := sqlx.In(`SELECT bc.blog_id, c.name FROM blog_categories bc
		JOIN categories c ON c.id = bc.category_id
		WHERE bc.blog_id IN (?)`, blogIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build category name query: %w", err)
	}
	var rows []struct {
		BlogID int64  `db:"blog_id"`
		Name   string `db:"name"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get category names: %w", err)
	}
	for _, row := range rows {
		names[row.BlogID] = append(names[row.BlogID], row.Name)
	}
	for id := range names {
		sort.Strings(names[id])
	}
	return names, nil
}

// CategoryIDs returns the ids of the categories attached to a blog.
func (r *BlogRepository) CategoryIDs(ctx context.Context, blogID int64) ([]int64, error) {
	var ids []int64
	query := "SELECT category_id FROM blog_categories WHERE blog_id = ? ORDER BY category_id"
	if err := r.db.SelectContext(ctx, &ids, query, blogID); err != nil {
		return nil, fmt.Errorf("failed to get blog categories: %w", err)
	}
	return ids, nil
}

// SetCategories replaces the categories attached to a blog.
func (r *BlogRepository) SetCategories(ctx context.Context, blogID int64, categoryIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := setCategories(ctx, tx, blogID, categoryIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func setCategories(ctx context.Context, ext sqlx.ExecerContext, blogID int64, categoryIDs []int64) error {
	if _, err := ext.ExecContext(ctx, "DELETE FROM blog_categories WHERE blog_id = ?", blogID); err != nil {
		return fmt.Errorf("failed to clear blog categories: %w", err)
	}
	seen := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := ext.ExecContext(ctx, "INSERT INTO blog_categories (blog_id, category_id) VALUES (?, ?)", blogID, id); err != nil {
			return fmt.Errorf("failed to attach category %d: %w", id, err)
		}
	}
	return nil
}
