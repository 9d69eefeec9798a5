package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CommentFilter narrows the comment change list.
type CommentFilter struct {
	BlogID *int64
}

var commentColumns = map[string]string{
	"blog":         "b.title",
	"text":         "c.text",
	"date_created": "c.date_created",
	"is_active":    "c.is_active",
}

const commentSelect = `SELECT c.id, c.blog_id, c.text, c.is_active, c.date_created, b.title AS blog_title
	FROM comments c JOIN blogs b ON b.id = c.blog_id`

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and stamps its creation time.
func (r *CommentRepository) Create(ctx context.Context, comment *Comment) error {
	return insertComment(ctx, r.db, comment)
}

func insertComment(ctx context.Context, ext sqlx.ExtContext, comment *Comment) error {
	comment.DateCreated = Now()
	query := `INSERT INTO comments (blog_id, text, is_active, date_created)
		VALUES (:blog_id, :text, :is_active, :date_created)`
	res, err := sqlx.NamedExecContext(ctx, ext, query, comment)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	comment.ID = id
	return nil
}

func updateComment(ctx context.Context, ext sqlx.ExtContext, comment *Comment) error {
	query := `UPDATE comments SET blog_id = :blog_id, text = :text, is_active = :is_active WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, ext, query, comment)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
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

// BulkCreate inserts all comments with a single statement.
// Ids are not read back.
func (r *CommentRepository) BulkCreate(ctx context.Context, comments []*Comment) error {
	if len(comments) == 0 {
		return nil
	}
	now := Now()
	for _, c := range comments {
		c.DateCreated = now
	}
	query := `INSERT INTO comments (blog_id, text, is_active, date_created)
		VALUES (:blog_id, :text, :is_active, :date_created)`
	if _, err := r.db.NamedExecContext(ctx, query, comments); err != nil {
		return fmt.Errorf("failed to bulk insert comments: %w", err)
	}
	return nil
}

// GetByID retrieves a single comment with its blog title.
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*CommentListItem, error) {
	var comment CommentListItem
	if err := r.db.GetContext(ctx, &comment, commentSelect+" WHERE c.id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}
	return &comment, nil
}

// Update saves a comment. date_created is never written after insert.
func (r *CommentRepository) Update(ctx context.Context, comment *Comment) error {
	return updateComment(ctx, r.db, comment)
}

func (f CommentFilter) where() (string, []interface{}) {
	if f.BlogID == nil {
		return "", nil
	}
	return " WHERE c.blog_id = ?", []interface{}{*f.BlogID}
}

// List returns one page of comments.
func (r *CommentRepository) List(ctx context.Context, filter CommentFilter, opts ListOptions) ([]*CommentListItem, error) {
	where, args := filter.where()
	query := commentSelect + where + orderBy(opts.Ordering, commentColumns, "c.id")
	query, args = paginate(query, args, opts)

	var comments []*CommentListItem
	if err := r.db.SelectContext(ctx, &comments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Count returns the number of comments matching the filter.
func (r *CommentRepository) Count(ctx context.Context, filter CommentFilter) (int64, error) {
	where, args := filter.where()
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM comments c"+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return n, nil
}

// ListByBlog returns every comment of a blog in creation order.
func (r *CommentRepository) ListByBlog(ctx context.Context, blogID int64) ([]*Comment, error) {
	var comments []*Comment
	query := `SELECT id, blog_id, text, is_active, date_created FROM comments WHERE blog_id = ? ORDER BY date_created, id`
	if err := r.db.SelectContext(ctx, &comments, query, blogID); err != nil {
		return nil, fmt.Errorf("failed to list comments of blog %d: %w", blogID, err)
	}
	return comments, nil
}

// DeleteByIDs removes the given comments and returns how many were deleted.
func (r *CommentRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	return deleteByIDs(ctx, r.db, "comments", ids)
}

// ExistingIDs returns the subset of ids that exist.
func (r *CommentRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	return existingIDs(ctx, r.db, "comments", ids)
}

// SaveBatch applies creates, updates and deletes atomically. Comments with a
// zero id are created. Deletes are restricted to blogID when it is non-zero.
func (r *CommentRepository) SaveBatch(ctx context.Context, blogID int64, upserts []*Comment, deleteIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := applyComments(ctx, tx, blogID, upserts, deleteIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func applyComments(ctx context.Context, tx *sqlx.Tx, blogID int64, upserts []*Comment, deleteIDs []int64) error {
	for _, c := range upserts {
		var err error
		if c.ID == 0 {
			err = insertComment(ctx, tx, c)
		} else {
			err = updateComment(ctx, tx, c)
		}
		if err != nil {
			return err
		}
	}
	if len(deleteIDs) == 0 {
		return nil
	}

	query, args, err := sqlx.In("DELETE FROM comments WHERE id IN (?)", deleteIDs)
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if blogID != 0 {
		query += " AND blog_id = ?"
		args = append(args, blogID)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

func existingIDs(ctx context.Context, db *sqlx.DB, table string, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	query, args, err := sqlx.In("SELECT id FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s id query: %w", table, err)
	}
	var existing []int64
	if err := db.SelectContext(ctx, &existing, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to look up %s ids: %w", table, err)
	}
	for _, id := range existing {
		found[id] = true
	}
	return found, nil
}

func deleteByIDs(ctx context.Context, db *sqlx.DB, table string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("DELETE FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
