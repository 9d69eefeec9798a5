package session

import (
	"blog-admin/internal/config"
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/mysqlstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/jmoiron/sqlx"
)

// Session keys.
const (
	UserIDKey = "user_id"
	FlashKey  = "flash"
	StateKey  = "oidc_state"
)

// Manager is an interface that abstracts the session management implementation.
// This allows for easier testing and dependency injection.
type Manager interface {
	LoadAndSave(next http.Handler) http.Handler
	Put(ctx context.Context, key string, val interface{})
	GetInt64(ctx context.Context, key string) int64
	GetString(ctx context.Context, key string) string
	PopString(ctx context.Context, key string) string
	RenewToken(ctx context.Context) error
	Destroy(ctx context.Context) error
	Remove(ctx context.Context, key string)
}

var _ Manager = (*scs.SessionManager)(nil)

// New creates a session manager persisting sessions in the application
// database. A nil db keeps sessions in memory.
func New(cfg config.SessionConfig, secure bool, db *sqlx.DB) *scs.SessionManager {
	sm := scs.New()
	if db != nil {
		switch db.DriverName() {
		case "mysql":
			sm.Store = mysqlstore.New(db.DB)
		default:
			sm.Store = sqlite3store.New(db.DB)
		}
	}
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = 12
	}
	sm.Lifetime = time.Duration(lifetime) * time.Hour
	sm.Cookie.Name = "blogadmin_session"
	sm.Cookie.Persist = true
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = secure
	return sm
}

// Flash stores a one-shot message shown on the next rendered page.
func Flash(ctx context.Context, sm Manager, msg string) {
	sm.Put(ctx, FlashKey, msg)
}
