// Package weather implements the forecast collaborator against an
// OpenWeatherMap-style API.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/haulware/routeopt/core/geo"
	"github.com/haulware/routeopt/core/logger"
)

// Config defines weather service settings.
type Config struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Client fetches short-term forecasts per location.
type Client struct {
	cfg  Config
	http *http.Client
	log  logger.Logger
}

// NewClient creates a weather client.
func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.SetDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:  log,
	}
}

type forecastResponse struct {
	List []struct {
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

// Forecast returns the dominant condition for the next forecast entry of a
// location. A missing API key or an empty forecast yields ErrUnavailable so
// the caller falls back to a zero adjustment.
func (c *Client) Forecast(ctx context.Context, location string, days int) (geo.Forecast, error) {
	if c.cfg.BaseURL == "" || c.cfg.APIKey == "" {
		return geo.Forecast{}, geo.ErrUnavailable
	}
	q := url.Values{}
	q.Set("q", location)
	q.Set("cnt", strconv.Itoa(days*8)) // 3-hourly entries
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return geo.Forecast{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return geo.Forecast{}, fmt.Errorf("forecast request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return geo.Forecast{}, fmt.Errorf("forecast request returned status %d", resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return geo.Forecast{}, fmt.Errorf("decode forecast response: %w", err)
	}
	if len(fr.List) == 0 || len(fr.List[0].Weather) == 0 {
		return geo.Forecast{}, geo.ErrUnavailable
	}
	return geo.Forecast{Condition: fr.List[0].Weather[0].Main}, nil
}
