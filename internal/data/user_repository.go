package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const userSelect = `SELECT id, username, email, password_hash, is_superuser, is_active, date_joined, last_login FROM admin_users`

// UserRepository handles database operations for admin accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts an admin account.
func (r *UserRepository) Create(ctx context.Context, user *AdminUser) error {
	user.DateJoined = Now()
	query := `INSERT INTO admin_users (username, email, password_hash, is_superuser, is_active, date_joined)
		VALUES (:username, :email, :password_hash, :is_superuser, :is_active, :date_joined)`
	res, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read admin user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*AdminUser, error) {
	var user AdminUser
	if err := r.db.GetContext(ctx, &user, userSelect+" WHERE "+where, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin user: %w", err)
	}
	return &user, nil
}

// GetByID retrieves an account by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*AdminUser, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetByUsername retrieves an account by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*AdminUser, error) {
	return r.getOne(ctx, "username = ?", username)
}

// GetByEmail retrieves an account by email, used for single sign-on.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	return r.getOne(ctx, "email = ? ORDER BY id LIMIT 1", email)
}

// TouchLastLogin records a successful login.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE admin_users SET last_login = ? WHERE id = ?", Now(), id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
