// Package server exposes the aggregation core as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"

	"myfuel/internal/config"
	"myfuel/internal/geo"
	"myfuel/internal/nearby"
	"myfuel/pkg/chargers"
)

const (
	geocodeCacheExpiry  = 30 * time.Minute
	geocodeCacheCleanup = 90 * time.Minute
)

// Querier is the aggregation operation the nearby endpoint depends on.
type Querier interface {
	Query(ctx context.Context, point geo.Coordinate, limit int) (*nearby.Envelope, error)
}

// ChargerSource returns the full normalized charger list.
type ChargerSource func(ctx context.Context) ([]chargers.Charger, error)

// Server wires the aggregator and the charger source into HTTP handlers.
type Server struct {
	agg      Querier
	chargers ChargerSource
	geocache *cache.Cache
	log      *httplog.Logger
	cfg      config.Config
}

// New creates a Server.
func New(agg Querier, chargerSrc ChargerSource, cfg config.Config, logger *httplog.Logger) *Server {
	gominatim.SetServer(cfg.NominatimServer)
	return &Server{
		agg:      agg,
		chargers: chargerSrc,
		geocache: cache.New(geocodeCacheExpiry, geocodeCacheCleanup),
		log:      logger,
		cfg:      cfg,
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(s.cfg.RateLimitMax, s.cfg.RateLimitWindow))

	r.Get("/", s.handleIndex)
	r.Get("/apiv1/nearby", s.handleNearby)
	r.Get("/apiv1/chargers", s.handleChargers)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "MyFuel API",
		"version": "1.0.0",
		"endpoints": []string{
			"GET /apiv1/nearby?lat=<lat>&lon=<lon>",
			"GET /apiv1/nearby?location=<place name>",
			"GET /apiv1/chargers",
		},
		"status": "ok",
	})
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	var point geo.Coordinate
	if location := query.Get("location"); location != "" {
		lat, lon, err := s.geocode(location)
		if err != nil {
			s.log.Warn("geocoding failed", "location", location, "error", err)
			writeError(w, http.StatusNotFound, "location not found")
			return
		}
		point = geo.Coordinate{Lat: lat, Lon: lon}
	} else {
		lat, err := strconv.ParseFloat(query.Get("lat"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid latitude")
			return
		}
		lon, err := strconv.ParseFloat(query.Get("lon"), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid longitude")
			return
		}
		point = geo.Coordinate{Lat: lat, Lon: lon}
	}

	env, err := s.agg.Query(r.Context(), point, limit)
	if err != nil {
		switch {
		case errors.Is(err, nearby.ErrInvalidCoordinate):
			writeError(w, http.StatusBadRequest, "coordinates out of range")
		case errors.Is(err, nearby.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		default:
			// Internal detail stays in the logs.
			s.log.Error("nearby query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": env,
	})
}

func (s *Server) handleChargers(w http.ResponseWriter, r *http.Request) {
	list, err := s.chargers(r.Context())
	if err != nil {
		s.log.Error("charger fetch failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not fetch chargers data")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(list),
		"result":  list,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
