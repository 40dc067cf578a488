// Package nearby answers "what is near me" queries by fetching both data
// sources concurrently and ranking every record by distance from the query
// point.
package nearby

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"myfuel/internal/fetchcache"
	"myfuel/internal/geo"
	"myfuel/internal/history"
	"myfuel/pkg/chargers"
	"myfuel/pkg/fuel"
)

// DefaultLimit is used when the caller does not specify a result limit.
const DefaultLimit = 20

var (
	// ErrInvalidCoordinate rejects out-of-range or non-finite query points
	// before any fetch is attempted.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidLimit rejects non-positive result limits.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Envelope is the immutable result of one query: both lists sorted by
// ascending distance and truncated to the limit. A fresh envelope is built
// per query; cached source data is never exposed directly.
type Envelope struct {
	FuelStations []fuel.Station     `json:"fuelStations"`
	Chargers     []chargers.Charger `json:"chargers"`
}

// Aggregator orchestrates the two cached sources and the history sink.
type Aggregator struct {
	fuel     *fetchcache.Fetcher[fuel.Station]
	chargers *fetchcache.Fetcher[chargers.Charger]
	history  history.Recorder
	log      *slog.Logger
}

// New creates an Aggregator. recorder may be nil to disable history.
func New(fuelSrc *fetchcache.Fetcher[fuel.Station], chargerSrc *fetchcache.Fetcher[chargers.Charger], recorder history.Recorder, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		fuel:     fuelSrc,
		chargers: chargerSrc,
		history:  recorder,
		log:      logger,
	}
}

// Query returns the limit closest fuel stations and chargers to point.
// limit 0 means DefaultLimit. Both sources are required: if either fails
// with no stale fallback available, the whole query fails rather than
// returning a partial envelope.
func (a *Aggregator) Query(ctx context.Context, point geo.Coordinate, limit int) (*Envelope, error) {
	if !point.Valid() {
		return nil, fmt.Errorf("%w: %f,%f", ErrInvalidCoordinate, point.Lat, point.Lon)
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if limit == 0 {
		limit = DefaultLimit
	}

	var (
		wg          sync.WaitGroup
		stations    []fuel.Station
		chargerList []chargers.Charger
		fuelErr     error
		chargerErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stations, fuelErr = a.fuel.Fetch(ctx)
	}()
	go func() {
		defer wg.Done()
		chargerList, chargerErr = a.chargers.Fetch(ctx)
	}()
	wg.Wait()

	if fuelErr != nil {
		return nil, fmt.Errorf("fuel source: %w", fuelErr)
	}
	if chargerErr != nil {
		return nil, fmt.Errorf("charger source: %w", chargerErr)
	}

	env := &Envelope{
		FuelStations: rankStations(stations, point, limit),
		Chargers:     rankChargers(chargerList, point, limit),
	}

	for i := range env.FuelStations {
		a.recordHistory(ctx, env.FuelStations[i])
	}

	return env, nil
}

// rankStations copies the shared snapshot before attaching distances, so
// concurrent queries never race on the cached records.
func rankStations(stations []fuel.Station, point geo.Coordinate, limit int) []fuel.Station {
	ranked := make([]fuel.Station, len(stations))
	copy(ranked, stations)
	for i := range ranked {
		ranked[i].DistanceKm = geo.DistanceKm(point, ranked[i].Coordinate)
	}
	// Stable: equidistant records keep their source order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func rankChargers(list []chargers.Charger, point geo.Coordinate, limit int) []chargers.Charger {
	ranked := make([]chargers.Charger, len(list))
	copy(ranked, list)
	for i := range ranked {
		ranked[i].DistanceKm = geo.DistanceKm(point, ranked[i].Coordinate)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func (a *Aggregator) recordHistory(ctx context.Context, station fuel.Station) {
	if a.history == nil {
		return
	}
	if err := a.history.Record(ctx, station); err != nil {
		a.log.Warn("history forwarding failed", "ext_id", station.ExternalID(), "error", err)
	}
}
