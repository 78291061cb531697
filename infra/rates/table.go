// Package rates provides the degraded-path distance estimator: a static
// coordinate table and a great-circle distance scaled by a road factor.
package rates

import (
	"fmt"
	"math"
	"strings"
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Config defines the estimator's location table and road factor.
type Config struct {
	// Locations maps a location name to its coordinates.
	Locations map[string]Coordinate `json:"locations"`
	// RoadFactor scales the great-circle distance to approximate road
	// distance. Typical values are 1.2 to 1.4.
	RoadFactor float64 `json:"road_factor"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.RoadFactor <= 0 {
		c.RoadFactor = 1.3
	}
}

// Table estimates distances from the coordinate table.
type Table struct {
	cfg Config
}

// NewTable creates a Table.
func NewTable(cfg Config) *Table {
	cfg.SetDefaults()
	return &Table{cfg: cfg}
}

// ApproximateDistance returns the road-factor-scaled great-circle distance
// in kilometers between two named locations. Unknown locations are an error;
// the matrix builder treats that pair as zero distance.
func (t *Table) ApproximateDistance(a, b string) (float64, error) {
	ca, ok := t.lookup(a)
	if !ok {
		return 0, fmt.Errorf("rates: unknown location %q", a)
	}
	cb, ok := t.lookup(b)
	if !ok {
		return 0, fmt.Errorf("rates: unknown location %q", b)
	}
	return haversineKm(ca, cb) * t.cfg.RoadFactor, nil
}

func (t *Table) lookup(name string) (Coordinate, bool) {
	if c, ok := t.cfg.Locations[name]; ok {
		return c, true
	}
	// Tolerate case differences between order addresses and the table.
	for k, c := range t.cfg.Locations {
		if strings.EqualFold(k, name) {
			return c, true
		}
	}
	return Coordinate{}, false
}

const earthRadiusKm = 6371.0

func haversineKm(a, b Coordinate) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
