package handler

import (
	"blog-admin/internal/admin"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"blog-admin/internal/session"
	"blog-admin/internal/view"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// base holds the dependencies shared by every admin handler.
type base struct {
	view     *view.View
	sessions session.Manager
	log      logger.Logger
	perPage  int
}

func newBase(v *view.View, sm session.Manager, log logger.Logger, perPage int) base {
	if perPage <= 0 {
		perPage = service.DefaultPerPage
	}
	return base{view: v, sessions: sm, log: log, perPage: perPage}
}

// render executes a page template with the signed-in user added to data.
func (h *base) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) *middleware.AppError {
	if data == nil {
		data = make(map[string]interface{})
	}
	data["User"] = middleware.GetUserInfo(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.view.Render(w, r, name, data); err != nil {
		h.log.Error(err, fmt.Sprintf("Failed to render %s", name))
	}
	return nil
}

func (h *base) flash(r *http.Request, msg string) {
	session.Flash(r.Context(), h.sessions, msg)
}

// afterSave redirects like the admin's save buttons: continue editing, add
// another, or back to the change list.
func afterSave(w http.ResponseWriter, r *http.Request, listURL string, id int64) {
	switch {
	case r.PostForm.Has("_continue"):
		http.Redirect(w, r, fmt.Sprintf("%s/%d", listURL, id), http.StatusFound)
	case r.PostForm.Has("_addanother"):
		http.Redirect(w, r, listURL+"/add", http.StatusFound)
	default:
		http.Redirect(w, r, listURL, http.StatusFound)
	}
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, *middleware.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &middleware.AppError{Error: err, Message: "Not Found", Code: http.StatusNotFound}
	}
	return id, nil
}

// serviceError maps a service error to an AppError.
func serviceError(err error, msg string) *middleware.AppError {
	if errors.Is(err, data.ErrNotFound) {
		return &middleware.AppError{Error: err, Message: "Not Found", Code: http.StatusNotFound}
	}
	return &middleware.AppError{Error: err, Message: msg, Code: http.StatusInternalServerError}
}

func badRequest(err error) *middleware.AppError {
	return &middleware.AppError{Error: err, Message: "Bad Request", Code: http.StatusBadRequest}
}

// checked reports whether a checkbox was ticked.
func checked(r *http.Request, name string) bool {
	v := r.PostForm.Get(name)
	return v == "on" || v == "true" || v == "1"
}

// noSelectionMessage is shown when a bulk action is submitted without rows.
const noSelectionMessage = "Items must be selected in order to perform actions on them. No items have been changed."

func deletedMessage(n int64, verbose, verbosePlural string) string {
	name := verbosePlural
	if n == 1 {
		name = verbose
	}
	return fmt.Sprintf("Successfully deleted %d %s.", n, name)
}

// deleteSelected runs the delete_selected bulk action for m.
func (h *base) deleteSelected(w http.ResponseWriter, r *http.Request, m *admin.ModelAdmin, del func(ctx context.Context, ids []int64) (int64, error)) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	action, ids := admin.ParseSelection(r.PostForm)
	if _, ok := m.Action(action); action != "" && !ok {
		return &middleware.AppError{Message: "Unknown action", Code: http.StatusBadRequest}
	}
	switch {
	case action == "":
		h.flash(r, "No action selected.")
	case len(ids) == 0:
		h.flash(r, noSelectionMessage)
	case action == admin.ActionDeleteSelected:
		n, err := del(r.Context(), ids)
		if err != nil {
			return serviceError(err, fmt.Sprintf("Failed to delete %s", m.Name))
		}
		h.flash(r, deletedMessage(n, strings.ToLower(m.Verbose), strings.ToLower(m.VerbosePlural)))
	default:
		return &middleware.AppError{Message: "Unknown action", Code: http.StatusBadRequest}
	}
	http.Redirect(w, r, r.URL.RequestURI(), http.StatusFound)
	return nil
}

// deleteOne deletes the object named by the {id} parameter and returns to the
// change list. del is never called when m.CanDelete is false.
func (h *base) deleteOne(w http.ResponseWriter, r *http.Request, m *admin.ModelAdmin, del func(ctx context.Context, ids []int64) (int64, error)) *middleware.AppError {
	if !m.CanDelete {
		return &middleware.AppError{Message: "Forbidden", Code: http.StatusForbidden}
	}
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	n, err := del(r.Context(), []int64{id})
	if err != nil {
		return serviceError(err, fmt.Sprintf("Failed to delete %s", m.Name))
	}
	if n == 0 {
		return &middleware.AppError{Message: "Not Found", Code: http.StatusNotFound}
	}
	h.flash(r, fmt.Sprintf("The %s was deleted successfully.", strings.ToLower(m.Verbose)))
	http.Redirect(w, r, m.URL(), http.StatusFound)
	return nil
}

// handleIndex lists the registered models.
func (h *base) handleIndex(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, http.StatusOK, "index.html", map[string]interface{}{"Models": admin.Registry})
}
