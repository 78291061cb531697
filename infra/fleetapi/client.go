// Package fleetapi implements the fleet registry against the telematics
// provider's REST API.
package fleetapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/haulware/routeopt/core/logger"
	"github.com/haulware/routeopt/core/model"
)

// Config defines telematics API settings.
type Config struct {
	BaseURL        string `json:"base_url"`
	APIToken       string `json:"api_token"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
	}
}

// Client polls truck and trailer availability.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewClient creates a telematics client.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
}

type truckDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Driver       string  `json:"driver"`
	Warehouse    string  `json:"warehouse"`
	CurrentHours float64 `json:"current_hours"`
	MaxHours     float64 `json:"max_hours"`
}

type trailerDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Warehouse       string  `json:"warehouse"`
	MaxWeightKg     float64 `json:"max_weight_kg"`
	CurrentWeightKg float64 `json:"current_weight_kg"`
	HasPalletJack   bool    `json:"has_pallet_jack"`
	Refrigerated    bool    `json:"refrigerated"`
}

// ListAvailableTrucks returns the availability snapshot of trucks.
func (c *Client) ListAvailableTrucks(ctx context.Context) ([]model.Truck, error) {
	var dtos []truckDTO
	if err := c.get(ctx, "/fleet/trucks", &dtos); err != nil {
		return nil, fmt.Errorf("list trucks: %w", err)
	}
	trucks := make([]model.Truck, len(dtos))
	for i, d := range dtos {
		trucks[i] = model.Truck{
			ID:           d.ID,
			Name:         d.Name,
			Driver:       d.Driver,
			Warehouse:    d.Warehouse,
			CurrentHours: d.CurrentHours,
			MaxHours:     d.MaxHours,
		}
	}
	return trucks, nil
}

// ListAvailableTrailers returns the availability snapshot of trailers.
func (c *Client) ListAvailableTrailers(ctx context.Context) ([]model.Trailer, error) {
	var dtos []trailerDTO
	if err := c.get(ctx, "/fleet/trailers", &dtos); err != nil {
		return nil, fmt.Errorf("list trailers: %w", err)
	}
	trailers := make([]model.Trailer, len(dtos))
	for i, d := range dtos {
		trailers[i] = model.Trailer{
			ID:              d.ID,
			Name:            d.Name,
			Warehouse:       d.Warehouse,
			MaxWeightKg:     d.MaxWeightKg,
			CurrentWeightKg: d.CurrentWeightKg,
			HasPalletJack:   d.HasPalletJack,
			Refrigerated:    d.Refrigerated,
		}
	}
	return trailers, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telematics returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
