// Package chargers fetches and normalizes EV charging site data from the
// DGT DATEX II v3 energy infrastructure publication.
package chargers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"myfuel/internal/geo"
)

const (
	// Endpoint serves the full EV infrastructure table for Spain as XML.
	Endpoint = "https://infocar.dgt.es/datex2/v3/miterd/EnergyInfrastructureTablePublication/electrolineras.xml"

	// The publication is tens of megabytes and the server is slow; a
	// longer timeout than the fuel feed is deliberate.
	defaultTimeout = 60 * time.Second
)

// Connector is a single physical plug exposed by a charging site.
type Connector struct {
	Type string `json:"type"`
	// PowerKW is nil when the source reports no power or zero watts, so a
	// missing value is never confused with a real zero-power plug.
	PowerKW *float64 `json:"power"`
}

// Charger is the normalized form of one charging site.
type Charger struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
	geo.Coordinate
	Connectors []Connector `json:"connectors"`
	// LastUpdated is the source-provided timestamp string, passed through
	// without parsing.
	LastUpdated string `json:"lastUpdated"`
	// DistanceKm is populated by the ranking step, not by normalization.
	DistanceKm float64 `json:"distance"`
}

// Client fetches charger data from the DGT publication.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Client with default settings.
func NewClient() *Client {
	return &Client{
		endpoint: Endpoint,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// Fetch downloads the publication and returns normalized chargers.
//
// As with the fuel client, the request is detached from the caller's
// cancellation so an abandoned query still warms the cache.
func (c *Client) Fetch(ctx context.Context) ([]Charger, error) {
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	return Parse(body)
}
