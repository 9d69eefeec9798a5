package handler

import (
	"blog-admin/internal/admin"
	"blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"fmt"
	"net/http"
)

// CategoryHandler serves the category change list and form.
type CategoryHandler struct {
	base
	categories service.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(b base, categories service.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{base: b, categories: categories}
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	m := admin.CategoryAdmin
	params := admin.ParseParams(m, r.URL.Query())
	page, err := h.categories.List(r.Context(), service.ListQuery{
		Search:   params.Search,
		Ordering: params.Ordering,
		Page:     params.Page,
		PerPage:  m.PerPage(h.perPage),
	})
	if err != nil {
		return serviceError(err, "Failed to list categories")
	}

	cl := admin.NewChangeList(m, params, page.Pagination, nil)
	for _, c := range page.Rows {
		cl.Rows = append(cl.Rows, admin.Row{
			ID:    c.ID,
			URL:   fmt.Sprintf("%s/%d", m.URL(), c.ID),
			Cells: []admin.Cell{admin.TextCell(c.Name), admin.BoolCell(c.IsActive)},
		})
	}
	return h.render(w, r, http.StatusOK, "change_list.html", map[string]interface{}{"CL": cl})
}

func (h *CategoryHandler) handleAction(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteSelected(w, r, admin.CategoryAdmin, h.categories.DeleteSelected)
}

func (h *CategoryHandler) handleDelete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteOne(w, r, admin.CategoryAdmin, h.categories.DeleteSelected)
}

func (h *CategoryHandler) handleAdd(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderForm(w, r, http.StatusOK, true, service.CategoryInput{IsActive: true}, nil)
}

func (h *CategoryHandler) handleCreate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	form := parseCategoryForm(r)
	c, err := h.categories.Create(r.Context(), form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, true, form, verr.Fields)
		}
		return serviceError(err, "Failed to create category")
	}
	h.flash(r, fmt.Sprintf("The category %q was added successfully.", c.Name))
	afterSave(w, r, admin.CategoryAdmin.URL(), c.ID)
	return nil
}

func (h *CategoryHandler) handleEdit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	c, err := h.categories.Get(r.Context(), id)
	if err != nil {
		return serviceError(err, "Failed to load category")
	}
	return h.renderForm(w, r, http.StatusOK, false, service.CategoryInput{Name: c.Name, IsActive: c.IsActive}, nil)
}

func (h *CategoryHandler) handleUpdate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	form := parseCategoryForm(r)
	c, err := h.categories.Update(r.Context(), id, form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, false, form, verr.Fields)
		}
		return serviceError(err, "Failed to update category")
	}
	h.flash(r, fmt.Sprintf("The category %q was changed successfully.", c.Name))
	afterSave(w, r, admin.CategoryAdmin.URL(), c.ID)
	return nil
}

func (h *CategoryHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, isNew bool, form service.CategoryInput, errs map[string][]string) *middleware.AppError {
	return h.render(w, r, status, "category_form.html", map[string]interface{}{
		"IsNew":  isNew,
		"Form":   form,
		"Errors": errs,
	})
}

func parseCategoryForm(r *http.Request) service.CategoryInput {
	return service.CategoryInput{
		Name:     r.PostForm.Get("name"),
		IsActive: checked(r, "is_active"),
	}
}
