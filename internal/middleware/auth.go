package middleware

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"blog-admin/internal/session"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/casbin/casbin/v2"
)

// LoginPath is where anonymous requests are sent.
const LoginPath = "/admin/login"

// UserLoader resolves the account stored in the session.
type UserLoader interface {
	Active(ctx context.Context, id int64) (*data.AdminUser, error)
}

// Authorizer creates a new middleware for authorization.
// Anonymous requests are redirected to the login page; signed-in accounts are
// checked with casbin using their role as the subject.
func Authorizer(e casbin.IEnforcer, sm session.Manager, users UserLoader, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			id := sm.GetInt64(ctx, session.UserIDKey)
			if id == 0 {
				redirectToLogin(w, r)
				return
			}

			user, err := users.Active(ctx, id)
			if err != nil {
				if errors.Is(err, data.ErrNotFound) {
					// The account was removed or deactivated since login.
					sm.Remove(ctx, session.UserIDKey)
					redirectToLogin(w, r)
					return
				}
				log.Error(err, "Failed to load session user")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			userInfo := &UserInfo{
				ID:          user.ID,
				Username:    user.Username,
				IsSuperuser: user.IsSuperuser,
				Subject:     auth.SubjectFor(user.IsSuperuser),
			}
			r = r.WithContext(SetUserInfo(ctx, userInfo))

			// Use Casbin to enforce the policy.
			allowed, err := e.Enforce(userInfo.Subject, r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, "Authorization check failed")
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if r.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusFound)
}
