package data

import (
	"database/sql/driver"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeoPoint is a longitude/latitude pair persisted as a GeoJSON Point document.
type GeoPoint struct {
	orb.Point
}

// NewGeoPoint builds a point from longitude and latitude.
func NewGeoPoint(lon, lat float64) GeoPoint {
	return GeoPoint{Point: orb.Point{lon, lat}}
}

// Valid reports whether the coordinates are within WGS84 bounds.
func (p GeoPoint) Valid() bool {
	return p.Lon() >= -180 && p.Lon() <= 180 && p.Lat() >= -90 && p.Lat() <= 90
}

// Value implements driver.Valuer.
func (p GeoPoint) Value() (driver.Value, error) {
	b, err := geojson.NewGeometry(p.Point).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode geojson point: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *GeoPoint) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		p.Point = orb.Point{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into GeoPoint", src)
	}

	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return fmt.Errorf("failed to decode geojson point: %w", err)
	}
	point, ok := g.Geometry().(orb.Point)
	if !ok {
		return fmt.Errorf("geojson geometry is %s, not Point", g.Type)
	}
	p.Point = point
	return nil
}
