//go:build integration

package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceRepository_RoundTripsLocation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPlaceRepository(db)
	ctx := context.Background()

	place := &Place{Name: "Lisbon", Location: NewGeoPoint(-9.1393, 38.7223)}
	require.NoError(t, repo.Create(ctx, place))

	var raw string
	require.NoError(t, db.Get(&raw, "SELECT location FROM places WHERE id = ?", place.ID))
	assert.JSONEq(t, `{"type":"Point","coordinates":[-9.1393,38.7223]}`, raw)

	got, err := repo.GetByID(ctx, place.ID)
	require.NoError(t, err)
	assert.InDelta(t, -9.1393, got.Location.Lon(), 1e-9)
	assert.InDelta(t, 38.7223, got.Location.Lat(), 1e-9)

	got.Location = NewGeoPoint(2.3522, 48.8566)
	got.Name = "Paris"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx, "par", ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.InDelta(t, 48.8566, list[0].Location.Lat(), 1e-9)

	n, err := repo.DeleteByIDs(ctx, []int64{place.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGeoPoint_Scan(t *testing.T) {
	var p GeoPoint
	require.NoError(t, p.Scan([]byte(`{"type":"Point","coordinates":[10,20]}`)))
	assert.Equal(t, 10.0, p.Lon())
	assert.Equal(t, 20.0, p.Lat())

	assert.Error(t, p.Scan(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`))
	assert.Error(t, p.Scan(42))

	assert.True(t, NewGeoPoint(180, -90).Valid())
	assert.False(t, NewGeoPoint(181, 0).Valid())
}
