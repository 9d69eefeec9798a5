package handler

import (
	"blog-admin/internal/admin"
	"blog-admin/internal/data"
	"blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"
)

const maxImportSize = 10 << 20

// BlogChoices lists the blogs offered by the comment form and filter.
type BlogChoices interface {
	Choices(ctx context.Context) ([]*data.Blog, error)
}

// CommentHandler serves the comment change list, form and import/export.
type CommentHandler struct {
	base
	comments service.CommentServicer
	blogs    BlogChoices
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(b base, comments service.CommentServicer, blogs BlogChoices) *CommentHandler {
	return &CommentHandler{base: b, comments: comments, blogs: blogs}
}

// handleList renders the change list.
func (h *CommentHandler) handleList(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	m := admin.CommentAdmin
	params := admin.ParseParams(m, r.URL.Query())

	page, err := h.comments.List(r.Context(), service.CommentQuery{
		Filter:   admin.CommentFilter(params),
		Ordering: params.Ordering,
		Page:     params.Page,
		PerPage:  m.PerPage(h.perPage),
	})
	if err != nil {
		return serviceError(err, "Failed to list comments")
	}
	blogs, err := h.blogs.Choices(r.Context())
	if err != nil {
		return serviceError(err, "Failed to list blogs")
	}
	choices := make([]admin.Choice, len(blogs))
	for i, b := range blogs {
		choices[i] = admin.Choice{Value: strconv.FormatInt(b.ID, 10), Label: b.Title}
	}

	cl := admin.NewChangeList(m, params, page.Pagination, map[string][]admin.Choice{admin.ParamBlog: choices})
	for _, c := range page.Rows {
		cl.Rows = append(cl.Rows, admin.Row{
			ID:  c.ID,
			URL: fmt.Sprintf("%s/%d", m.URL(), c.ID),
			Cells: []admin.Cell{
				admin.TextCell(c.BlogTitle),
				admin.TextCell(c.Text),
				admin.TimeCell(c.DateCreated),
				admin.BoolCell(c.IsActive),
			},
		})
	}
	return h.render(w, r, http.StatusOK, "change_list.html", map[string]interface{}{"CL": cl})
}

// handleAction runs a bulk action from the change list.
func (h *CommentHandler) handleAction(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteSelected(w, r, admin.CommentAdmin, h.comments.DeleteSelected)
}

func (h *CommentHandler) handleDelete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteOne(w, r, admin.CommentAdmin, h.comments.DeleteSelected)
}

// handleAdd shows an empty change form.
func (h *CommentHandler) handleAdd(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form := service.CommentInput{IsActive: true}
	if id, err := strconv.ParseInt(r.URL.Query().Get("blog"), 10, 64); err == nil {
		form.BlogID = id
	}
	return h.renderForm(w, r, http.StatusOK, true, form, nil, nil)
}

// handleCreate saves a new comment.
func (h *CommentHandler) handleCreate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form, err := parseCommentForm(r)
	if err != nil {
		return badRequest(err)
	}
	comment, err := h.comments.Create(r.Context(), form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, true, form, nil, verr.Fields)
		}
		return serviceError(err, "Failed to create comment")
	}
	h.flash(r, "The comment was added successfully.")
	afterSave(w, r, admin.CommentAdmin.URL(), comment.ID)
	return nil
}

// handleEdit shows the change form of an existing comment.
func (h *CommentHandler) handleEdit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	c, err := h.comments.Get(r.Context(), id)
	if err != nil {
		return serviceError(err, "Failed to load comment")
	}
	form := service.CommentInput{BlogID: c.BlogID, Text: c.Text, IsActive: c.IsActive}
	return h.renderForm(w, r, http.StatusOK, false, form, &c.DateCreated, nil)
}

// handleUpdate saves an existing comment.
func (h *CommentHandler) handleUpdate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	form, err := parseCommentForm(r)
	if err != nil {
		return badRequest(err)
	}
	comment, err := h.comments.Update(r.Context(), id, form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, false, form, nil, verr.Fields)
		}
		return serviceError(err, "Failed to update comment")
	}
	h.flash(r, "The comment was changed successfully.")
	afterSave(w, r, admin.CommentAdmin.URL(), comment.ID)
	return nil
}

func (h *CommentHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, isNew bool, form service.CommentInput, created *time.Time, errs map[string][]string) *middleware.AppError {
	blogs, err := h.blogs.Choices(r.Context())
	if err != nil {
		return serviceError(err, "Failed to list blogs")
	}
	return h.render(w, r, status, "comment_form.html", map[string]interface{}{
		"Admin":       admin.CommentAdmin,
		"IsNew":       isNew,
		"Form":        form,
		"Blogs":       blogs,
		"DateCreated": created,
		"Errors":      errs,
	})
}

func parseCommentForm(r *http.Request) (service.CommentInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.CommentInput{}, err
	}
	form := service.CommentInput{
		Text:     r.PostForm.Get("text"),
		IsActive: checked(r, "is_active"),
	}
	if raw := r.PostForm.Get("blog"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return form, fmt.Errorf("invalid blog id %q", raw)
		}
		form.BlogID = id
	}
	return form, nil
}

// handleExport downloads the filtered comments.
func (h *CommentHandler) handleExport(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	format := service.FormatCSV
	if raw := r.URL.Query().Get("format"); raw != "" {
		f, err := service.ParseFormat(raw)
		if err != nil {
			return badRequest(err)
		}
		format = f
	}
	params := admin.ParseParams(admin.CommentAdmin, r.URL.Query())

	filename := fmt.Sprintf("Comment-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := h.comments.Export(r.Context(), admin.CommentFilter(params), format, w); err != nil {
		// Headers are already sent; the download is truncated.
		h.log.Error(err, "Failed to export comments")
	}
	return nil
}

// handleImportForm shows the upload form.
func (h *CommentHandler) handleImportForm(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderImport(w, r, http.StatusOK, string(service.FormatCSV), true, nil, nil)
}

// handleImport validates an uploaded file and imports it unless it is a dry
// run or has errors.
func (h *CommentHandler) handleImport(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		return badRequest(err)
	}
	dryRun := checked(r, "dry_run")
	rawFormat := r.PostForm.Get("format")

	file, header, err := r.FormFile("import_file")
	if err != nil {
		return h.renderImport(w, r, http.StatusBadRequest, rawFormat, dryRun, nil,
			map[string][]string{"import_file": {"This field is required."}})
	}
	defer file.Close()

	if rawFormat == "" {
		rawFormat = filepath.Ext(header.Filename)
	}
	format, err := service.ParseFormat(rawFormat)
	if err != nil {
		return h.renderImport(w, r, http.StatusBadRequest, rawFormat, dryRun, nil,
			map[string][]string{"format": {err.Error()}})
	}

	result, err := h.comments.Import(r.Context(), format, file, dryRun)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderImport(w, r, http.StatusBadRequest, string(format), dryRun, nil, verr.Fields)
		}
		return serviceError(err, "Failed to import comments")
	}
	if result.Committed {
		h.flash(r, fmt.Sprintf("Import finished, with %d new and %d updated comments.", result.New, result.Updated))
		http.Redirect(w, r, admin.CommentAdmin.URL(), http.StatusFound)
		return nil
	}
	status := http.StatusOK
	if result.HasErrors() {
		status = http.StatusBadRequest
	}
	return h.renderImport(w, r, status, string(format), dryRun, result, nil)
}

func (h *CommentHandler) renderImport(w http.ResponseWriter, r *http.Request, status int, format string, dryRun bool, result *service.ImportResult, errs map[string][]string) *middleware.AppError {
	return h.render(w, r, status, "comment_import.html", map[string]interface{}{
		"Formats": service.Formats,
		"Format":  format,
		"DryRun":  dryRun,
		"Result":  result,
		"Errors":  errs,
	})
}
