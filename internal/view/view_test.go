//go:build unit

package view

import (
	"blog-admin/web"
	"bytes"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Render(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/layouts/base.html": {Data: []byte(`{{define "base"}}[{{.SiteHeader}}|{{.Path}}]{{template "content" .}}{{end}}`)},
		"templates/pages/hello.html":  {Data: []byte(`{{define "content"}}hello {{.Name}} {{add 1 2}} {{lower "ABC"}}{{end}}`)},
	}
	v, err := New(fsys, nil, "Admin")
	require.NoError(t, err)

	var buf bytes.Buffer
	r := httptest.NewRequest("GET", "/admin/x", nil)
	require.NoError(t, v.Render(&buf, r, "hello.html", map[string]interface{}{"Name": "gopher"}))
	assert.Equal(t, "[Admin|/admin/x]hello gopher 3 abc", buf.String())

	assert.Error(t, v.Render(&buf, r, "missing.html", nil))
}

func TestView_EmbeddedTemplatesParse(t *testing.T) {
	v, err := New(web.TemplateFS, nil, "Blog administration")
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "login.html", "error.html", "change_list.html",
		"blog_form.html", "comment_form.html", "comment_import.html",
		"category_form.html", "place_form.html",
	} {
		_, ok := v.templates[name]
		assert.True(t, ok, name)
	}

	var buf bytes.Buffer
	r := httptest.NewRequest("GET", "/admin/", nil)
	err = v.Render(&buf, r, "error.html", map[string]interface{}{"StatusCode": 404, "StatusText": "Not Found"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Not Found")
}

func TestFuncs(t *testing.T) {
	hasID := Funcs["hasID"].(func([]int64, int64) bool)
	assert.True(t, hasID([]int64{1, 2}, 2))
	assert.False(t, hasID(nil, 2))

	dict := Funcs["dict"].(func(...interface{}) (map[string]interface{}, error))
	m, err := dict("a", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m["a"])
	_, err = dict("a")
	assert.Error(t, err)
}
