//go:build integration

package handler

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/config"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"blog-admin/internal/service"
	"blog-admin/internal/session"
	"blog-admin/internal/view"
	"blog-admin/web"
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse"

type testApp struct {
	server   *httptest.Server
	db       *sqlx.DB
	blogs    *data.BlogRepository
	comments *data.CommentRepository
	users    *data.UserRepository
}

// newTestApp serves the full admin router backed by a temporary SQLite
// database, in-memory sessions and the default policies.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppPerPage(t, 0)
}

// newTestAppPerPage is newTestApp with a configured change list page size.
func newTestAppPerPage(t *testing.T, perPage int) *testApp {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = data.ApplyMigrations(db)
	require.NoError(t, err)

	log := logger.Nop()
	sm := session.New(config.SessionConfig{}, false, nil)
	v, err := view.New(web.TemplateFS, sm, "Blog administration")
	require.NoError(t, err)
	enforcer, err := auth.NewEnforcer(nil)
	require.NoError(t, err)
	auth.SeedDefaultPolicies(enforcer, log)

	app := &testApp{
		db:       db,
		blogs:    data.NewBlogRepository(db),
		comments: data.NewCommentRepository(db),
		users:    data.NewUserRepository(db),
	}
	categories := data.NewCategoryRepository(db)
	blogService := service.NewBlogService(app.blogs, app.comments, service.NewBodyRenderer(nil, log))

	router := NewRouter(Dependencies{
		View:       v,
		Sessions:   sm,
		Enforcer:   enforcer,
		Log:        log,
		PerPage:    perPage,
		Users:      service.NewUserService(app.users),
		Blogs:      blogService,
		Comments:   service.NewCommentService(app.comments, app.blogs),
		Categories: service.NewCategoryService(categories),
		Places:     service.NewPlaceService(data.NewPlaceRepository(db)),
	})
	app.server = httptest.NewServer(router)
	t.Cleanup(app.server.Close)
	return app
}

func (a *testApp) createUser(t *testing.T, username string, superuser bool) *data.AdminUser {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	user := &data.AdminUser{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsSuperuser:  superuser,
		IsActive:     true,
	}
	require.NoError(t, a.users.Create(context.Background(), user))
	return user
}

func (a *testApp) createBlog(t *testing.T, title string) *data.Blog {
	t.Helper()
	blog := &data.Blog{Title: title, Slug: title, Body: "body", IsDraft: true}
	require.NoError(t, a.blogs.Create(context.Background(), blog))
	return blog
}

// client returns a cookie-keeping client that does not follow redirects.
func (a *testApp) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// login signs username in and returns the authenticated client.
func (a *testApp) login(t *testing.T, username string) *http.Client {
	t.Helper()
	c := a.client(t)
	resp, err := c.PostForm(a.server.URL+"/admin/login", url.Values{
		"username": {username},
		"password": {testPassword},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/", resp.Header.Get("Location"))
	return c
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}
