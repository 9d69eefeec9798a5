package handler

import (
	"blog-admin/internal/admin"
	"blog-admin/internal/data"
	"blog-admin/internal/middleware"
	"blog-admin/internal/service"
	"fmt"
	"net/http"
	"strconv"
)

// PlaceHandler serves the place change list and form.
type PlaceHandler struct {
	base
	places service.PlaceServicer
}

// NewPlaceHandler creates a new PlaceHandler.
func NewPlaceHandler(b base, places service.PlaceServicer) *PlaceHandler {
	return &PlaceHandler{base: b, places: places}
}

func (h *PlaceHandler) handleList(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	m := admin.PlaceAdmin
	params := admin.ParseParams(m, r.URL.Query())
	page, err := h.places.List(r.Context(), service.ListQuery{
		Search:   params.Search,
		Ordering: params.Ordering,
		Page:     params.Page,
		PerPage:  m.PerPage(h.perPage),
	})
	if err != nil {
		return serviceError(err, "Failed to list places")
	}

	cl := admin.NewChangeList(m, params, page.Pagination, nil)
	for _, p := range page.Rows {
		cl.Rows = append(cl.Rows, admin.Row{
			ID:  p.ID,
			URL: fmt.Sprintf("%s/%d", m.URL(), p.ID),
			Cells: []admin.Cell{
				admin.TextCell(p.Name),
				admin.TextCell(formatCoord(p.Location.Lon())),
				admin.TextCell(formatCoord(p.Location.Lat())),
			},
		})
	}
	return h.render(w, r, http.StatusOK, "change_list.html", map[string]interface{}{"CL": cl})
}

func (h *PlaceHandler) handleAction(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteSelected(w, r, admin.PlaceAdmin, h.places.DeleteSelected)
}

func (h *PlaceHandler) handleDelete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.deleteOne(w, r, admin.PlaceAdmin, h.places.DeleteSelected)
}

func (h *PlaceHandler) handleAdd(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.renderForm(w, r, http.StatusOK, nil, service.PlaceInput{}, nil)
}

func (h *PlaceHandler) handleCreate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	form := parsePlaceForm(r)
	p, err := h.places.Create(r.Context(), form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, nil, form, verr.Fields)
		}
		return serviceError(err, "Failed to create place")
	}
	h.flash(r, fmt.Sprintf("The place %q was added successfully.", p.Name))
	afterSave(w, r, admin.PlaceAdmin.URL(), p.ID)
	return nil
}

func (h *PlaceHandler) handleEdit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	p, err := h.places.Get(r.Context(), id)
	if err != nil {
		return serviceError(err, "Failed to load place")
	}
	form := service.PlaceInput{
		Name:      p.Name,
		Longitude: formatCoord(p.Location.Lon()),
		Latitude:  formatCoord(p.Location.Lat()),
	}
	return h.renderForm(w, r, http.StatusOK, p, form, nil)
}

func (h *PlaceHandler) handleUpdate(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, appErr := idParam(r)
	if appErr != nil {
		return appErr
	}
	if err := r.ParseForm(); err != nil {
		return badRequest(err)
	}
	form := parsePlaceForm(r)
	p, err := h.places.Update(r.Context(), id, form)
	if err != nil {
		if verr, ok := service.AsValidationError(err); ok {
			return h.renderForm(w, r, http.StatusBadRequest, &data.Place{ID: id}, form, verr.Fields)
		}
		return serviceError(err, "Failed to update place")
	}
	h.flash(r, fmt.Sprintf("The place %q was changed successfully.", p.Name))
	afterSave(w, r, admin.PlaceAdmin.URL(), p.ID)
	return nil
}

// renderForm shows the place form. A nil place means the add form; the stored
// location is shown as GeoJSON only while it is valid.
func (h *PlaceHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, place *data.Place, form service.PlaceInput, errs map[string][]string) *middleware.AppError {
	var geo string
	if place != nil && errs == nil {
		if v, err := place.Location.Value(); err == nil {
			geo, _ = v.(string)
		}
	}
	return h.render(w, r, status, "place_form.html", map[string]interface{}{
		"IsNew":   place == nil,
		"Form":    form,
		"GeoJSON": geo,
		"Errors":  errs,
	})
}

func parsePlaceForm(r *http.Request) service.PlaceInput {
	return service.PlaceInput{
		Name:      r.PostForm.Get("name"),
		Longitude: r.PostForm.Get("longitude"),
		Latitude:  r.PostForm.Get("latitude"),
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
