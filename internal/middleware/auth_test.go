//go:build unit

package middleware

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"blog-admin/internal/session"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSession serves a fixed user id and records removals.
type stubSession struct {
	session.Manager
	userID  int64
	removed []string
}

func (s *stubSession) GetInt64(ctx context.Context, key string) int64 { return s.userID }
func (s *stubSession) Remove(ctx context.Context, key string)         { s.removed = append(s.removed, key) }

type stubUsers map[int64]*data.AdminUser

func (u stubUsers) Active(ctx context.Context, id int64) (*data.AdminUser, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, data.ErrNotFound
}

func newAuthorizer(t *testing.T, sm *stubSession) http.Handler {
	t.Helper()
	e, err := auth.NewEnforcer(nil)
	require.NoError(t, err)
	auth.SeedDefaultPolicies(e, logger.Nop())

	users := stubUsers{
		1: {ID: 1, Username: "root", IsSuperuser: true, IsActive: true},
		2: {ID: 2, Username: "editor", IsActive: true},
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := GetUserInfo(r.Context())
		w.Write([]byte(u.Username + ":" + u.Subject))
	})
	return Authorizer(e, sm, users, logger.Nop())(next)
}

func TestAuthorizer(t *testing.T) {
	tests := []struct {
		name     string
		userID   int64
		method   string
		path     string
		code     int
		location string
		body     string
	}{
		{name: "anonymous get", method: http.MethodGet, path: "/admin/blogs?p=2", code: http.StatusFound, location: "/admin/login?next=%2Fadmin%2Fblogs%3Fp%3D2"},
		{name: "anonymous post", method: http.MethodPost, path: "/admin/blogs", code: http.StatusFound, location: "/admin/login"},
		{name: "unknown account", userID: 9, method: http.MethodGet, path: "/admin/", code: http.StatusFound, location: "/admin/login?next=%2Fadmin%2F"},
		{name: "staff list", userID: 2, method: http.MethodGet, path: "/admin/blogs", code: http.StatusOK, body: "editor:staff"},
		{name: "superuser list", userID: 1, method: http.MethodGet, path: "/admin/comments", code: http.StatusOK, body: "root:superuser"},
		{name: "staff blog delete", userID: 2, method: http.MethodPost, path: "/admin/blogs/3/delete", code: http.StatusForbidden},
		{name: "superuser blog delete", userID: 1, method: http.MethodPost, path: "/admin/blogs/3/delete", code: http.StatusForbidden},
		{name: "superuser comment delete", userID: 1, method: http.MethodPost, path: "/admin/comments/3/delete", code: http.StatusOK, body: "root:superuser"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := &stubSession{userID: tt.userID}
			rr := httptest.NewRecorder()
			newAuthorizer(t, sm).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.code, rr.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rr.Header().Get("Location"))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, rr.Body.String())
			}
		})
	}
}

func TestAuthorizer_StaleSessionIsCleared(t *testing.T) {
	sm := &stubSession{userID: 9}
	rr := httptest.NewRecorder()
	newAuthorizer(t, sm).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, []string{session.UserIDKey}, sm.removed)
}
