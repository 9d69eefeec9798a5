package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var placeColumns = map[string]string{
	"name": "name",
}

// PlaceRepository handles database operations for places.
type PlaceRepository struct {
	db *sqlx.DB
}

// NewPlaceRepository creates a new PlaceRepository.
func NewPlaceRepository(db *sqlx.DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

// Create inserts a place.
func (r *PlaceRepository) Create(ctx context.Context, place *Place) error {
	res, err := r.db.NamedExecContext(ctx, "INSERT INTO places (name, location) VALUES (:name, :location)", place)
	if err != nil {
		return fmt.Errorf("failed to insert place: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read place id: %w", err)
	}
	place.ID = id
	return nil
}

// GetByID retrieves a single place.
func (r *PlaceRepository) GetByID(ctx context.Context, id int64) (*Place, error) {
	var place Place
	if err := r.db.GetContext(ctx, &place, "SELECT id, name, location FROM places WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get place by id: %w", err)
	}
	return &place, nil
}

// Update saves a place.
func (r *PlaceRepository) Update(ctx context.Context, place *Place) error {
	res, err := r.db.NamedExecContext(ctx, "UPDATE places SET name = :name, location = :location WHERE id = :id", place)
	if err != nil {
		return fmt.Errorf("failed to update place: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of places, optionally filtered by a name substring.
func (r *PlaceRepository) List(ctx context.Context, search string, opts ListOptions) ([]*Place, error) {
	where, args := nameSearch(search)
	query := "SELECT id, name, location FROM places" + where + orderBy(opts.Ordering, placeColumns, "id")
	query, args = paginate(query, args, opts)

	var places []*Place
	if err := r.db.SelectContext(ctx, &places, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	return places, nil
}

// Count returns the number of places matching the search.
func (r *PlaceRepository) Count(ctx context.Context, search string) (int64, error) {
	where, args := nameSearch(search)
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM places"+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count places: %w", err)
	}
	return n, nil
}

// DeleteByIDs removes places.
func (r *PlaceRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	return deleteByIDs(ctx, r.db, "places", ids)
}
