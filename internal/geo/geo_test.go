package geo

import (
	"math"
	"testing"
)

func TestDistanceKmIdenticalPoints(t *testing.T) {
	points := []Coordinate{
		{Lat: 0, Lon: 0},
		{Lat: 41.3874, Lon: 2.1686},
		{Lat: -90, Lon: 180},
		{Lat: 90, Lon: -180},
	}

	for _, p := range points {
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %f, expected 0", p, p, d)
		}
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	a := Coordinate{Lat: 41.3874, Lon: 2.1686}
	b := Coordinate{Lat: 40.4168, Lon: -3.7038}

	ab := DistanceKm(a, b)
	ba := DistanceKm(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("DistanceKm not symmetric: %f vs %f", ab, ba)
	}
}

func TestDistanceKmBarcelonaMadrid(t *testing.T) {
	barcelona := Coordinate{Lat: 41.3874, Lon: 2.1686}
	madrid := Coordinate{Lat: 40.4168, Lon: -3.7038}

	d := DistanceKm(barcelona, madrid)
	if d < 500 || d > 510 {
		t.Errorf("Barcelona-Madrid distance = %f km, expected ~505 km", d)
	}
}

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		coord Coordinate
		valid bool
	}{
		{Coordinate{Lat: 41.3874, Lon: 2.1686}, true},
		{Coordinate{Lat: -90, Lon: -180}, true},
		{Coordinate{Lat: 90, Lon: 180}, true},
		{Coordinate{Lat: 90.01, Lon: 0}, false},
		{Coordinate{Lat: -91, Lon: 0}, false},
		{Coordinate{Lat: 0, Lon: 180.5}, false},
		{Coordinate{Lat: 0, Lon: -181}, false},
		{Coordinate{Lat: math.NaN(), Lon: 0}, false},
		{Coordinate{Lat: 0, Lon: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		if got := tt.coord.Valid(); got != tt.valid {
			t.Errorf("Valid(%v) = %v, expected %v", tt.coord, got, tt.valid)
		}
	}
}
