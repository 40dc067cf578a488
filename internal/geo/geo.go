// Package geo provides the coordinate type and great-circle distance
// calculation shared by the fuel and charger pipelines.
package geo

import (
	"math"

	"github.com/tkrajina/gpxgo/gpx"
)

const metersPerKm = 1000.0

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether both components are finite and within range
// (latitude [-90,90], longitude [-180,180]).
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceKm returns the haversine distance between two points in kilometers.
// Callers are expected to validate coordinates first; NaN inputs propagate.
func DistanceKm(a, b Coordinate) float64 {
	return gpx.Distance2D(a.Lat, a.Lon, b.Lat, b.Lon, true) / metersPerKm
}
