//go:build integration

package handler

import (
	"blog-admin/internal/admin"
	"blog-admin/internal/data"
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testApp) upload(t *testing.T, c *http.Client, path, filename, content string, fields map[string]string) (*http.Response, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("import_file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.Post(a.server.URL+path, mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) commentCount(t *testing.T) int64 {
	t.Helper()
	n, err := a.comments.Count(context.Background(), data.CommentFilter{})
	require.NoError(t, err)
	return n
}

func TestCommentList_FilterByBlog(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin", true)
	first := app.createBlog(t, "first")
	second := app.createBlog(t, "second")
	ctx := context.Background()
	require.NoError(t, app.comments.Create(ctx, &data.Comment{BlogID: first.ID, Text: "on first", IsActive: true}))
	require.NoError(t, app.comments.Create(ctx, &data.Comment{BlogID: second.ID, Text: "on second", IsActive: true}))
	c := app.login(t, "admin")

	resp, body := app.get(t, c, "/admin/comments")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "on first")
	assert.Contains(t, body, "on second")

	_, body = app.get(t, c, fmt.Sprintf("/admin/comments?%s=%d", admin.ParamBlog, second.ID))
	assert.NotContains(t, body, "on first")
	assert.Contains(t, body, "on second")
}

func TestCommentDeleteSelected(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin", true)
	blog := app.createBlog(t, "blog")
	ctx := context.Background()
	gone := &data.Comment{BlogID: blog.ID, Text: "gone", IsActive: true}
	kept := &data.Comment{BlogID: blog.ID, Text: "kept", IsActive: true}
	require.NoError(t, app.comments.Create(ctx, gone))
	require.NoError(t, app.comments.Create(ctx, kept))
	c := app.login(t, "admin")

	resp, _ := app.post(t, c, "/admin/comments", url.Values{
		"action":           {admin.ActionDeleteSelected},
		"_selected_action": {fmt.Sprint(gone.ID)},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, body := app.get(t, c, "/admin/comments")
	assert.Contains(t, body, "Successfully deleted 1 comment.")
	assert.Equal(t, int64(1), app.commentCount(t))
}

func TestCommentExport(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin", true)
	blog := app.createBlog(t, "blog")
	require.NoError(t, app.comments.Create(context.Background(), &data.Comment{BlogID: blog.ID, Text: "exported", IsActive: true}))
	c := app.login(t, "admin")

	resp, body := app.get(t, c, "/admin/comments/export?format=csv")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment;")
	assert.Contains(t, body, "id,blog,text,is_active,date_created")
	assert.Contains(t, body, "exported")

	resp, _ = app.get(t, c, "/admin/comments/export?format=xls")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentImport(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin", true)
	blog := app.createBlog(t, "blog")
	c := app.login(t, "admin")
	csv := fmt.Sprintf("id,blog,text,is_active\n,%d,imported one,true\n,%d,imported two,false\n", blog.ID, blog.ID)

	t.Run("dry run previews without saving", func(t *testing.T) {
		resp, body := app.upload(t, c, "/admin/comments/import", "comments.csv", csv,
			map[string]string{"format": "csv", "dry_run": "on"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "2 new, 0 updated, 0 with errors.")
		assert.Equal(t, int64(0), app.commentCount(t))
	})

	t.Run("any invalid row blocks the import", func(t *testing.T) {
		bad := csv + ",999,orphan,true\n"
		resp, body := app.upload(t, c, "/admin/comments/import", "comments.csv", bad,
			map[string]string{"format": "csv"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "no blog with id 999")
		assert.Equal(t, int64(0), app.commentCount(t))
	})

	t.Run("unsupported format is reported", func(t *testing.T) {
		resp, _ := app.upload(t, c, "/admin/comments/import", "comments.xls", csv,
			map[string]string{"format": "xls"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("valid file is imported", func(t *testing.T) {
		resp, _ := app.upload(t, c, "/admin/comments/import", "comments.csv", csv,
			map[string]string{"format": "csv"})
		require.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/admin/comments", resp.Header.Get("Location"))
		assert.Equal(t, int64(2), app.commentCount(t))

		_, body := app.get(t, c, "/admin/comments")
		assert.Contains(t, body, "Import finished, with 2 new and 0 updated comments.")
	})
}

func TestCommentCreate(t *testing.T) {
	app := newTestApp(t)
	app.createUser(t, "admin", true)
	blog := app.createBlog(t, "blog")
	c := app.login(t, "admin")

	resp, body := app.post(t, c, "/admin/comments/add", url.Values{"blog": {"999"}, "text": {"hi"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Please correct the errors below.")

	resp, _ = app.post(t, c, "/admin/comments/add", url.Values{
		"blog":      {fmt.Sprint(blog.ID)},
		"text":      {"hi"},
		"is_active": {"on"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/comments", resp.Header.Get("Location"))
	assert.Equal(t, int64(1), app.commentCount(t))
}
