//go:build unit

package logger

import (
	"blog-admin/internal/config"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var e map[string]interface{}
		require.NoError(t, dec.Decode(&e))
		entries = append(entries, e)
	}
	return entries
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Level: "info", Format: "console"}, &buf).Info("blog published")

	assert.Contains(t, buf.String(), "blog published")
	assert.NotContains(t, buf.String(), "{")
}

func TestNew_JSONError(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Level: "error", Format: "json"}, &buf).Error(errors.New("disk full"), "import failed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "import failed", entries[0]["message"])
	assert.Equal(t, "disk full", entries[0]["error"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	log.Info("ignored")
	log.Warn("kept")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "loud", Format: "json"}, &buf)
	log.Debug("hidden")
	log.Info("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	New(config.LogConfig{Level: "debug", Format: "json"}, &buf).
		With(map[string]interface{}{"blog_id": 7}).Debug("loaded")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(7), entries[0]["blog_id"])
}

func TestRequestFormatter(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)

	h := middleware.RequestLogger(RequestFormatter(log))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Forbidden", http.StatusForbidden)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/admin/blogs/1/delete", nil))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "request rejected", entries[0]["message"])
	assert.Equal(t, "POST", entries[0]["method"])
	assert.Equal(t, "/admin/blogs/1/delete", entries[0]["path"])
	assert.Equal(t, float64(http.StatusForbidden), entries[0]["status"])
}
