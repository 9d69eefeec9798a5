package handler

import (
	"blog-admin/internal/auth"
	"blog-admin/internal/data"
	"blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"blog-admin/internal/session"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
)

const loginErrorMessage = "Please enter the correct username and password for a staff account. Note that both fields may be case-sensitive."

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	base
	users service.UserServicer
	auth  *auth.Authenticator
}

// NewAuthHandler creates a new AuthHandler. a is nil when single sign-on is disabled.
func NewAuthHandler(b base, users service.UserServicer, a *auth.Authenticator) *AuthHandler {
	return &AuthHandler{base: b, users: users, auth: a}
}

// handleLoginForm shows the username/password form.
func (h *AuthHandler) handleLoginForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.sessions.GetInt64(r.Context(), session.UserIDKey) != 0 {
		http.Redirect(w, r, safeNext(r.URL.Query().Get("next")), http.StatusFound)
		return nil
	}
	return h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"Next":       r.URL.Query().Get("next"),
		"SSOEnabled": h.auth != nil,
	})
}

// handleLogin checks the submitted credentials and starts a session.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	username := r.PostForm.Get("username")
	next := r.PostForm.Get("next")

	user, err := h.users.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return h.render(w, r, http.StatusOK, "login.html", map[string]interface{}{
				"Next":       next,
				"Username":   username,
				"Error":      loginErrorMessage,
				"SSOEnabled": h.auth != nil,
			})
		}
		return serviceError(err, "Failed to sign in")
	}
	return h.startSession(w, r, user, next)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *data.AdminUser, next string) *middleware.AppError {
	// Renew the token to prevent session fixation.
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return serviceError(err, "Failed to start session")
	}
	h.sessions.Put(r.Context(), session.UserIDKey, user.ID)
	h.log.With(map[string]interface{}{"user": user.Username}).Info("Admin signed in")
	http.Redirect(w, r, safeNext(next), http.StatusFound)
	return nil
}

// handleLogout ends the session.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		return serviceError(err, "Failed to end session")
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusFound)
	return nil
}

// handleSSOLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string for CSRF protection.
func (h *AuthHandler) handleSSOLogin(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return &middleware.AppError{Message: "Not Found", Code: http.StatusNotFound}
	}
	state, err := randString(16)
	if err != nil {
		return serviceError(err, "Internal Server Error")
	}
	h.sessions.Put(r.Context(), session.StateKey, state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// handleSSOCallback is the redirect URL for the OIDC provider. The verified
// email claim must belong to an active admin account.
func (h *AuthHandler) handleSSOCallback(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if h.auth == nil {
		return &middleware.AppError{Message: "Not Found", Code: http.StatusNotFound}
	}
	// Verify the state parameter to prevent CSRF attacks.
	want := h.sessions.PopString(r.Context(), session.StateKey)
	if want == "" || r.URL.Query().Get("state") != want {
		return &middleware.AppError{Message: "State did not match", Code: http.StatusBadRequest}
	}

	email, err := h.auth.VerifiedEmail(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to verify sign-in", Code: http.StatusUnauthorized}
	}
	user, err := h.users.LoginByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return &middleware.AppError{Error: err, Message: "No active admin account for this email", Code: http.StatusForbidden}
		}
		return serviceError(err, "Failed to sign in")
	}
	return h.startSession(w, r, user, "")
}

// safeNext only allows redirects back into the admin console.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\") {
		return next
	}
	return "/admin/"
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
