package server

import (
	"fmt"
	"strconv"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"
)

// geocode resolves a free-text location to coordinates via Nominatim,
// caching results to stay within the public instance's usage policy.
func (s *Server) geocode(location string) (lat, lon float64, err error) {
	if cached, ok := s.geocache.Get(location); ok {
		result := cached.(gominatim.SearchResult)
		return resultToLatLon(result)
	}

	query := gominatim.SearchQuery{
		Q: location,
	}
	results, err := query.Get()
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding error: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no results found for location: %s", location)
	}

	s.geocache.Set(location, results[0], cache.DefaultExpiration)

	return resultToLatLon(results[0])
}

func resultToLatLon(result gominatim.SearchResult) (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing latitude: %w", err)
	}

	lon, err = strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("error parsing longitude: %w", err)
	}

	return lat, lon, nil
}
