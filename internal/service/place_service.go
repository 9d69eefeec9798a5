package service

import (
	"blog-admin/internal/data"
	"context"
	"math"
	"strconv"
	"strings"
)

// PlaceRepository defines the database operations for places.
type PlaceRepository interface {
	Create(ctx context.Context, place *data.Place) error
	GetByID(ctx context.Context, id int64) (*data.Place, error)
	Update(ctx context.Context, place *data.Place) error
	List(ctx context.Context, search string, opts data.ListOptions) ([]*data.Place, error)
	Count(ctx context.Context, search string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
}

// PlaceServicer defines the interface for the place admin.
type PlaceServicer interface {
	List(ctx context.Context, q ListQuery) (*PlacePage, error)
	Get(ctx context.Context, id int64) (*data.Place, error)
	Create(ctx context.Context, in PlaceInput) (*data.Place, error)
	Update(ctx context.Context, id int64, in PlaceInput) (*data.Place, error)
	DeleteSelected(ctx context.Context, ids []int64) (int64, error)
}

// PlacePage is one page of the place change list.
type PlacePage struct {
	Rows []*data.Place
	Pagination
}

// PlaceInput carries the submitted place form. Coordinates are kept as
// submitted so that malformed numbers are reported per field.
type PlaceInput struct {
	Name      string
	Longitude string
	Latitude  string
}

// PlaceService provides business logic for the place admin.
type PlaceService struct {
	repo PlaceRepository
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(repo PlaceRepository) *PlaceService {
	return &PlaceService{repo: repo}
}

// List returns one page of places.
func (s *PlaceService) List(ctx context.Context, q ListQuery) (*PlacePage, error) {
	total, err := s.repo.Count(ctx, q.Search)
	if err != nil {
		return nil, err
	}
	page := NewPagination(q.Page, q.PerPage, total)
	rows, err := s.repo.List(ctx, q.Search, data.ListOptions{
		Ordering: q.Ordering,
		Limit:    page.PerPage,
		Offset:   page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return &PlacePage{Rows: rows, Pagination: page}, nil
}

// Get retrieves a single place.
func (s *PlaceService) Get(ctx context.Context, id int64) (*data.Place, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates and stores a new place.
func (s *PlaceService) Create(ctx context.Context, in PlaceInput) (*data.Place, error) {
	place := &data.Place{}
	if err := applyPlaceInput(place, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// Update validates and saves an existing place.
func (s *PlaceService) Update(ctx context.Context, id int64, in PlaceInput) (*data.Place, error) {
	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPlaceInput(place, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// DeleteSelected removes the selected places.
func (s *PlaceService) DeleteSelected(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.DeleteByIDs(ctx, ids)
}

func applyPlaceInput(place *data.Place, in PlaceInput) error {
	place.Name = strings.TrimSpace(in.Name)

	verr := &ValidationError{}
	collect(verr, validateStruct(place, ""))
	lon, lonOK := parseCoordinate(verr, "longitude", in.Longitude, 180)
	lat, latOK := parseCoordinate(verr, "latitude", in.Latitude, 90)
	if !verr.empty() {
		return verr
	}
	if lonOK && latOK {
		place.Location = data.NewGeoPoint(lon, lat)
	}
	return nil
}

func parseCoordinate(verr *ValidationError, field, raw string, limit float64) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add(field, "This field is required.")
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		verr.Add(field, "Enter a number.")
		return 0, false
	}
	if v < -limit || v > limit {
		verr.Add(field, "Ensure this value is between -"+strconv.FormatFloat(limit, 'f', -1, 64)+" and "+strconv.FormatFloat(limit, 'f', -1, 64)+".")
		return 0, false
	}
	return v, true
}

var _ PlaceServicer = (*PlaceService)(nil)
