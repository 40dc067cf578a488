package fuel

import (
	"math"
	"strconv"
	"strings"

	"myfuel/internal/geo"
)

// ParseDecimal parses a feed decimal string, accepting both comma and dot
// separators ("1,539" or "1.539").
func ParseDecimal(s string) (float64, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	return strconv.ParseFloat(s, 64)
}

// Normalize converts raw feed records into typed stations. Records whose
// coordinates cannot be parsed to finite floats are excluded; a station we
// cannot place on the map is useless downstream.
func Normalize(raw []RawStation) []Station {
	stations := make([]Station, 0, len(raw))
	for i := range raw {
		st, ok := normalizeStation(&raw[i])
		if !ok {
			continue
		}
		stations = append(stations, st)
	}
	return stations
}

func normalizeStation(r *RawStation) (Station, bool) {
	lat, err := ParseDecimal(r.Latitud)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return Station{}, false
	}
	lon, err := ParseDecimal(r.Longitud)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Station{}, false
	}

	prices := make(map[string]float64)
	for _, ft := range FuelTypes {
		rawPrice := r.rawPrice(ft.Key)
		if strings.TrimSpace(rawPrice) == "" {
			continue
		}
		price, err := ParseDecimal(rawPrice)
		if err != nil {
			continue
		}
		prices[ft.Key] = price
	}

	return Station{
		Brand:        r.Rotulo,
		Address:      r.Direccion,
		Province:     r.Provincia,
		Municipality: r.Municipio,
		PostalCode:   r.CP,
		Coordinate:   geo.Coordinate{Lat: lat, Lon: lon},
		Prices:       prices,
	}, true
}
