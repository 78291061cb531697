// Package maps implements the mapping collaborator: a single route-matrix
// call resolving pairwise road distances and travel times for a location set.
package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/haulware/routeopt/core/geo"
	"github.com/haulware/routeopt/core/logger"
)

// Config defines mapping service settings.
type Config struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// Client talks to the route-matrix endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewClient creates a mapping client.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
}

type matrixRequest struct {
	Locations []string `json:"locations"`
	Mode      string   `json:"mode"`
	Units     string   `json:"units"`
}

type matrixResponse struct {
	DistancesKm [][]float64 `json:"distances_km"`
	TimesMin    [][]float64 `json:"times_min"`
}

// RouteMatrix resolves the full matrix in one request. Any transport,
// quota or decoding failure is returned to the caller, which degrades to
// the fallback distance table.
func (c *Client) RouteMatrix(ctx context.Context, locations []string) (geo.Matrix, error) {
	if c.cfg.BaseURL == "" || c.cfg.APIKey == "" {
		return geo.Matrix{}, geo.ErrUnavailable
	}
	payload, err := json.Marshal(matrixRequest{Locations: locations, Mode: "driving", Units: "metric"})
	if err != nil {
		return geo.Matrix{}, fmt.Errorf("marshal matrix request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/routematrix", bytes.NewReader(payload))
	if err != nil {
		return geo.Matrix{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return geo.Matrix{}, fmt.Errorf("matrix request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return geo.Matrix{}, fmt.Errorf("matrix request returned status %d", resp.StatusCode)
	}

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return geo.Matrix{}, fmt.Errorf("decode matrix response: %w", err)
	}
	n := len(locations)
	if len(mr.DistancesKm) != n || len(mr.TimesMin) != n {
		return geo.Matrix{}, fmt.Errorf("matrix response has %d rows, want %d", len(mr.DistancesKm), n)
	}
	for i := range mr.DistancesKm {
		if len(mr.DistancesKm[i]) != n || len(mr.TimesMin[i]) != n {
			return geo.Matrix{}, fmt.Errorf("matrix response row %d is ragged", i)
		}
	}
	c.log.Debugf("route matrix resolved for %d locations", n)
	return geo.Matrix{DistanceKm: mr.DistancesKm, TimeMin: mr.TimesMin}, nil
}
