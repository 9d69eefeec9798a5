package handler

import (
	"blog-admin/internal/admin"
	"blog-admin/internal/data"
	"blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"
)

// CategoryChoices lists the categories offered on the blog form.
type CategoryChoices interface {
	All(ctx context.Context) ([]*data.Category, error)
}

// BlogHandler serves the blog change list and change form.
type BlogHandler struct {
	base
	blogs      service.BlogServicer
	categories CategoryChoices
	now        func() time.Time
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(b base, blogs service.BlogServicer, categories CategoryChoices) *BlogHandler {
	return &BlogHandler{base: b, blogs: blogs, categories: categories, now: time.Now}
}

// handleList renders the change list.
func (h *BlogHandler) handleList(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	m := admin.BlogAdmin
	params := admin.ParseParams(m, r.URL.Query())
	baseFilter, filter, sel := admin.BlogFilters(params, h.now())
	user := middleware.GetUserInfo(r.Context())

	page, err := h.blogs.List(r.Context(), service.BlogQuery{
		Filter:    filter,
		Ordering:  params.Ordering,
		Page:      params.Page,
		PerPage:   m.PerPage(h.perPage),
		Superuser: user.IsSuperuser,
	})
	if err != nil {
		return serviceError(err, "Failed to list blogs")
	}
	links, err := h.blogs.DateDrilldown(r.Context(), baseFilter, sel)
	if err != nil {
		return serviceError(err, "Failed to list blog dates")
	}

	cl := admin.NewChangeList(m, params, page.Pagination, nil)
	cl.SetDateHierarchy(sel, links)
	for _, row := range page.Rows {
		cl.Rows = append(cl.Rows, admin.Row{
			ID:  row.ID,
			URL: fmt.Sprintf("%s/%d", m.URL(), row.ID),
			Cells: []admin.Cell{
				admin.TextCell(row.Title),
				admin.TimeCell(row.DateCreated),
				admin.TimeCell(row.LastModified),
				admin.BoolCell(row.IsDraft),
				admin.TextCell(strconv.Itoa(row.DaysActive)),
				admin.IntCell(row.CommentCount),
				admin.TextCell(row.Categories),
			},
		})
	}
	return h.render(w, r, http.StatusOK, "change_list.html", map[string]interface{}{"CL": cl})
}

// handleAction runs a bulk action from the change list.
func (h *BlogHandler) handleAction(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	action, ids := admin.ParseSelection(r.PostForm)
	if _, ok := admin.BlogAdmin.Action(action); action != "" && !ok {
		return &middleware.AppError{Message: "Unknown action", Code: http.StatusBadRequest}
	}
	switch {
	case action == "":
		h.flash(r, "No action selected.")
	case len(ids) == 0:
		h.flash(r, noSelectionMessage)
	case action == admin.ActionPublish:
		n, err := h.blogs.Publish(r.Context(), ids)
		if err != nil {
			return serviceError(err, "Failed to publish blogs")
		}
		h.flash(r, service.PublishedMessage(n))
	default:
		return &middleware.AppError{Message: "Unknown action", Code: http.StatusBadRequest}
	}
	http.Redirect(w, r, r.URL.RequestURI(), http.StatusFound)
	return nil
}

// handleAdd shows an empty change form.
func (h *BlogHandler) handleAdd(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form := service.BlogInput{IsDraft: true}
	return h.renderForm(w, r, http.StatusOK, 0, form, nil)
}

// handleCreate saves a new blog.
func (h *BlogHandler) handleCreate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	form, err := parseBlogForm(r)
	if err != nil {
		return badRequest(err)
	}
	blog, err := h.blogs.Create(r.Context(), form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, 0, form, verr.Fields)
		}
		return serviceError(err, "Failed to create blog")
	}
	h.flash(r, fmt.Sprintf("The blog %q was added successfully.", blog.Title))
	afterSave(w, r, admin.BlogAdmin.URL(), blog.ID)
	return nil
}

// handleEdit shows the change form of an existing blog.
func (h *BlogHandler) handleEdit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	detail, err := h.blogs.Get(r.Context(), id)
	if err != nil {
		return serviceError(err, "Failed to load blog")
	}
	form := service.BlogInput{
		Title:       detail.Blog.Title,
		Slug:        detail.Blog.Slug,
		Body:        detail.Blog.Body,
		IsDraft:     detail.Blog.IsDraft,
		CategoryIDs: detail.CategoryIDs,
	}
	for _, c := range detail.Comments {
		form.Comments = append(form.Comments, service.InlineComment{ID: c.ID, Text: c.Text, IsActive: c.IsActive})
	}
	return h.renderForm(w, r, http.StatusOK, id, form, nil)
}

// handleUpdate saves an existing blog.
func (h *BlogHandler) handleUpdate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	form, err := parseBlogForm(r)
	if err != nil {
		return badRequest(err)
	}
	blog, err := h.blogs.Update(r.Context(), id, form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, id, form, verr.Fields)
		}
		return serviceError(err, "Failed to update blog")
	}
	h.flash(r, fmt.Sprintf("The blog %q was changed successfully.", blog.Title))
	afterSave(w, r, admin.BlogAdmin.URL(), blog.ID)
	return nil
}

// handleDelete refuses while the blog admin does not allow deletion; the
// blog service has no delete operation to fall through to.
func (h *BlogHandler) handleDelete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteOne(w, r, admin.BlogAdmin, nil)
}

func (h *BlogHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id int64, form service.BlogInput, errs map[string][]string) *middleware.AppError {
	categories, err := h.categories.All(r.Context())
	if err != nil {
		return serviceError(err, "Failed to load categories")
	}
	// Drop posted blank rows before adding the extra ones again.
	for n := len(form.Comments); n > 0 && form.Comments[n-1].ID == 0 && form.Comments[n-1].Text == ""; n-- {
		form.Comments = form.Comments[:n-1]
	}
	for i := 0; i < admin.BlogAdmin.Inlines[0].Extra; i++ {
		form.Comments = append(form.Comments, service.InlineComment{IsActive: true})
	}
	var preview template.HTML
	if form.Body != "" {
		preview = h.blogs.RenderBody(form.Body)
	}
	return h.render(w, r, status, "blog_form.html", map[string]interface{}{
		"Admin":      admin.BlogAdmin,
		"IsNew":      id == 0,
		"Form":       form,
		"Categories": categories,
		"Errors":     errs,
		"Preview":    preview,
	})
}

// parseBlogForm reads the change form including the comment inline rows.
func parseBlogForm(r *http.Request) (service.BlogInput, error) {
	if err := r.ParseForm(); err != nil {
		return service.BlogInput{}, err
	}
	admin.BlogAdmin.Prepopulate(r.PostForm)
	form := service.BlogInput{
		Title:   r.PostForm.Get("title"),
		Slug:    r.PostForm.Get("slug"),
		Body:    r.PostForm.Get("body"),
		IsDraft: checked(r, "is_draft"),
	}
	for _, raw := range r.PostForm["categories"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return form, fmt.Errorf("invalid category id %q", raw)
		}
		form.CategoryIDs = append(form.CategoryIDs, id)
	}

	inline := admin.BlogAdmin.Inlines[0]
	total, _ := strconv.Atoi(r.PostForm.Get(inline.Model + "-TOTAL_FORMS"))
	if total > 1000 {
		return form, fmt.Errorf("too many inline forms")
	}
	for i := 0; i < total; i++ {
		prefix := fmt.Sprintf("%s-%d-", inline.Model, i)
		row := service.InlineComment{
			Text:     r.PostForm.Get(prefix + "text"),
			IsActive: checked(r, prefix+"is_active"),
			Delete:   inline.CanDelete && checked(r, prefix+"DELETE"),
		}
		if raw := r.PostForm.Get(prefix + "id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return form, fmt.Errorf("invalid comment id %q", raw)
			}
			row.ID = id
		}
		form.Comments = append(form.Comments, row)
	}
	return form, nil
}
