// Package fuel fetches and normalizes fuel station prices from the Spanish
// government open data feed (MINETUR).
package fuel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// Endpoint serves the latest published prices for every station in Spain.
	Endpoint = "https://sedeaplicaciones.minetur.gob.es/ServiciosRESTCarburantes/PreciosCarburantes/EstacionesTerrestres"

	apiResultOK    = "OK"
	defaultTimeout = 30 * time.Second
)

// Client fetches fuel price data from the official API.
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

// FetchRaw downloads the latest publication without normalizing it.
//
// The request is detached from the caller's cancellation so that an
// abandoned query still finishes the download and warms the cache; the
// client timeout bounds how long that can take.
func (c *Client) FetchRaw(ctx context.Context) (*RawList, error) {
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

	var list RawList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("error unmarshaling JSON: %w", err)
	}

	if list.ResultadoConsulta != apiResultOK {
		return nil, fmt.Errorf("API returned non-OK result: %s", list.ResultadoConsulta)
	}

	return &list, nil
}

// Fetch downloads the latest publication and returns normalized stations.
func (c *Client) Fetch(ctx context.Context) ([]Station, error) {
	list, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(list.ListaEESSPrecio), nil
}
