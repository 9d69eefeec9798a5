//go:build integration

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceService_CreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := NewPlaceService(env.places)

	place, err := s.Create(ctx, PlaceInput{Name: "Lisbon", Longitude: "-9.1393", Latitude: "38.7223"})
	require.NoError(t, err)

	got, err := s.Get(ctx, place.ID)
	require.NoError(t, err)
	assert.InDelta(t, -9.1393, got.Location.Lon(), 1e-9)
	assert.InDelta(t, 38.7223, got.Location.Lat(), 1e-9)

	_, err = s.Update(ctx, place.ID, PlaceInput{Name: "Porto", Longitude: "-8.61", Latitude: "41.15"})
	require.NoError(t, err)

	page, err := s.List(ctx, ListQuery{Search: "por"})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "Porto", page.Rows[0].Name)
}

func TestPlaceService_Validation(t *testing.T) {
	env := newTestEnv(t)
	s := NewPlaceService(env.places)

	_, err := s.Create(context.Background(), PlaceInput{Name: "", Longitude: "181", Latitude: "north"})
	verr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
	assert.Equal(t, []string{"Ensure this value is between -180 and 180."}, verr.Fields["longitude"])
	assert.Equal(t, []string{"Enter a number."}, verr.Fields["latitude"])
}

func TestPlaceService_RejectsNaN(t *testing.T) {
	env := newTestEnv(t)
	s := NewPlaceService(env.places)

	_, err := s.Create(context.Background(), PlaceInput{Name: "Nowhere", Longitude: "NaN", Latitude: "1"})
	verr, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, []string{"Enter a number."}, verr.Fields["longitude"])

	page, err := s.List(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
}
