//go:build unit

package handler

import (
	"blog-admin/internal/logger"
	"blog-admin/internal/session"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockSessionManager is a mock implementation of the session.Manager interface.
type mockSessionManager struct {
	destroyCalled bool
	values        map[string]interface{}
}

// Ensure mockSessionManager implements the session.Manager interface.
var _ session.Manager = (*mockSessionManager)(nil)

func (m *mockSessionManager) LoadAndSave(next http.Handler) http.Handler { return next }
func (m *mockSessionManager) Put(ctx context.Context, key string, val interface{}) {
	if m.values == nil {
		m.values = make(map[string]interface{})
	}
	m.values[key] = val
}
func (m *mockSessionManager) GetInt64(ctx context.Context, key string) int64 {
	v, _ := m.values[key].(int64)
	return v
}
func (m *mockSessionManager) GetString(ctx context.Context, key string) string {
	v, _ := m.values[key].(string)
	return v
}
func (m *mockSessionManager) PopString(ctx context.Context, key string) string {
	v := m.GetString(ctx, key)
	delete(m.values, key)
	return v
}
func (m *mockSessionManager) RenewToken(ctx context.Context) error { return nil }
func (m *mockSessionManager) Remove(ctx context.Context, key string) {
	delete(m.values, key)
}
func (m *mockSessionManager) Destroy(ctx context.Context) error {
	m.destroyCalled = true
	m.values = nil
	return nil
}

func TestLogoutHandler(t *testing.T) {
	mockSession := &mockSessionManager{}
	mockSession.Put(context.Background(), session.UserIDKey, int64(1))
	// The logout handler renders nothing, so no view is needed.
	authHandler := NewAuthHandler(newBase(nil, mockSession, logger.Nop(), 0), nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	rr := httptest.NewRecorder()

	appErr := authHandler.handleLogout(rr, req)

	assert.Nil(t, appErr)
	assert.True(t, mockSession.destroyCalled, "expected session.Destroy to be called")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/admin/login", rr.Header().Get("Location"))
}

func TestSSOLogin_DisabledIsNotFound(t *testing.T) {
	authHandler := NewAuthHandler(newBase(nil, &mockSessionManager{}, logger.Nop(), 0), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/auth/login", nil)
	appErr := authHandler.handleSSOLogin(httptest.NewRecorder(), req)

	if assert.NotNil(t, appErr) {
		assert.Equal(t, http.StatusNotFound, appErr.Code)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                      "/admin/",
		"/admin/blogs?p=2":      "/admin/blogs?p=2",
		"https://evil.example/": "/admin/",
		"//evil.example/admin/": "/admin/",
		"/admin/\\evil.example": "/admin/",
		"/static/admin.css":     "/admin/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeNext(in), "next=%q", in)
	}
}
