package data

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("record not found")

const day = 24 * time.Hour

// Blog is a single blog post.
type Blog struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title" validate:"required,max=255"`
	Body         string    `db:"body" validate:"required"`
	DateCreated  time.Time `db:"date_created"`
	LastModified time.Time `db:"last_modified"`
	IsDraft      bool      `db:"is_draft"`
	Slug         string    `db:"slug" validate:"required,max=100"`
}

func (b *Blog) String() string { return b.Title }

// DaysSinceCreation returns the whole days elapsed between creation and now, floored.
func (b *Blog) DaysSinceCreation(now time.Time) int {
	d := now.Sub(b.DateCreated)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// BlogListItem is a Blog row annotated for the admin change list.
type BlogListItem struct {
	Blog
	CommentCount  int64    `db:"comment_count"`
	CategoryNames []string `db:"-"`
}

// Comment belongs to a Blog and is removed together with it.
type Comment struct {
	ID          int64     `db:"id"`
	BlogID      int64     `db:"blog_id" validate:"required,gt=0"`
	Text        string    `db:"text" validate:"required"`
	IsActive    bool      `db:"is_active"`
	DateCreated time.Time `db:"date_created"`
}

func (c *Comment) String() string { return c.Text }

// CommentListItem is a Comment joined with the title of its blog.
type CommentListItem struct {
	Comment
	BlogTitle string `db:"blog_title"`
}

// Category groups blogs; the relation is many-to-many.
type Category struct {
	ID       int64  `db:"id"`
	Name     string `db:"name" validate:"required,max=100"`
	IsActive bool   `db:"is_active"`
}

func (c *Category) String() string { return c.Name }

// Place is a named geographic point.
type Place struct {
	ID       int64    `db:"id"`
	Name     string   `db:"name" validate:"required,max=50"`
	Location GeoPoint `db:"location"`
}

func (p *Place) String() string { return p.Name }

// AdminUser is an account allowed to sign in to the admin console.
type AdminUser struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username" validate:"required,max=150"`
	Email        string     `db:"email" validate:"omitempty,email"`
	PasswordHash string     `db:"password_hash"`
	IsSuperuser  bool       `db:"is_superuser"`
	IsActive     bool       `db:"is_active"`
	DateJoined   time.Time  `db:"date_joined"`
	LastLogin    *time.Time `db:"last_login"`
}

// ListOptions controls ordering and paging of list queries.
// Ordering entries name a field, optionally prefixed with "-" for descending order.
type ListOptions struct {
	Ordering []string
	Limit    int
	Offset   int
}

// Now returns the current time in the precision stored by the database.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
