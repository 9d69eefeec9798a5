//go:build unit

package middleware

import (
	"blog-admin/internal/logger"
	"blog-admin/internal/view"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newErrorView(t *testing.T) *view.View {
	t.Helper()
	fsys := fstest.MapFS{
		"templates/layouts/base.html": {Data: []byte(`{{define "base"}}{{template "content" .}}{{end}}`)},
		"templates/pages/error.html":  {Data: []byte(`{{define "content"}}{{.StatusCode}} {{.StatusText}}{{end}}`)},
	}
	v, err := view.New(fsys, nil, "Admin")
	require.NoError(t, err)
	return v
}

func TestError(t *testing.T) {
	mw := Error(logger.Nop(), newErrorView(t))

	t.Run("handler error is rendered", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			return &AppError{Error: errors.New("missing"), Message: "Not Found", Code: http.StatusNotFound}
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/blogs/9", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "404 Not Found", rr.Body.String())
	})

	t.Run("panic becomes a 500", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			panic("boom")
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/", nil))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "500 Internal Server Error", rr.Body.String())
	})

	t.Run("success passes through", func(t *testing.T) {
		h := mw(func(w http.ResponseWriter, r *http.Request) *AppError {
			w.WriteHeader(http.StatusNoContent)
			return nil
		})
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}
