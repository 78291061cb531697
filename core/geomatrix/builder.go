// Package geomatrix turns the batch's locations into the distance matrix,
// weather-adjusted travel-time matrix and service time windows consumed by
// the routing solver.
package geomatrix

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/haulware/routeopt/core/cache"
	"github.com/haulware/routeopt/core/geo"
	"github.com/haulware/routeopt/core/logger"
	"github.com/haulware/routeopt/core/model"
)

// Config defines matrix-building parameters.
type Config struct {
	// AvgSpeedKmh converts fallback distances into travel times.
	AvgSpeedKmh float64 `json:"avg_speed_kmh"`
	// HorizonMin bounds every route in minutes from departure.
	HorizonMin int `json:"horizon_min"`
	// Per-priority service window upper bounds, minutes from route start.
	WindowHighMin   int `json:"window_high_min"`
	WindowMediumMin int `json:"window_medium_min"`
	WindowLowMin    int `json:"window_low_min"`
	// ForecastDays is passed to the weather provider.
	ForecastDays int `json:"forecast_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.AvgSpeedKmh <= 0 {
		c.AvgSpeedKmh = 60
	}
	if c.HorizonMin <= 0 {
		c.HorizonMin = 1440
	}
	if c.WindowHighMin <= 0 {
		c.WindowHighMin = 200
	}
	if c.WindowMediumMin <= 0 {
		c.WindowMediumMin = 500
	}
	if c.WindowLowMin <= 0 {
		c.WindowLowMin = 1000
	}
	if c.ForecastDays <= 0 {
		c.ForecastDays = 1
	}
}

// Window is the [earliest, latest] service interval for a node, in minutes
// from route start.
type Window struct {
	Earliest int
	Latest   int
}

// Inputs is everything the solver needs for one batch.
type Inputs struct {
	Locations []string
	Index     map[string]int
	Dist      *mat.Dense // km
	Time      *mat.Dense // min, weather adjusted on the primary path
	Windows   []Window
	Depots    []int // node index of each truck's warehouse, same order as trucks
	Degraded  bool  // true when the mapping service was unavailable
}

// Builder assembles solver inputs from the mapping, weather and fallback
// distance collaborators. It holds no state between batches.
type Builder struct {
	maps      geo.MatrixProvider
	weather   geo.WeatherProvider
	estimator geo.DistanceEstimator
	cache     cache.DistanceCache
	cfg       Config
	log       logger.Logger
}

// NewBuilder creates a Builder. The estimator is mandatory because it backs
// the degraded path; maps, weather and cache may be nil.
func NewBuilder(maps geo.MatrixProvider, weather geo.WeatherProvider, estimator geo.DistanceEstimator, dc cache.DistanceCache, cfg Config, log logger.Logger) (*Builder, error) {
	if estimator == nil || log == nil {
		return nil, fmt.Errorf("geomatrix: estimator and logger are required")
	}
	cfg.SetDefaults()
	return &Builder{maps: maps, weather: weather, estimator: estimator, cache: dc, cfg: cfg, log: log}, nil
}

// Build resolves the location index, matrices and time windows for the batch.
// Mapping-service failure degrades to the estimator; weather lookup failures
// degrade to a zero adjustment. Build never fails on collaborator errors.
func (b *Builder) Build(ctx context.Context, orders []model.Order, trucks []model.Truck) (Inputs, error) {
	locations, index := locationIndex(orders, trucks)
	n := len(locations)
	in := Inputs{
		Locations: locations,
		Index:     index,
		Dist:      mat.NewDense(n, n, nil),
		Time:      mat.NewDense(n, n, nil),
		Windows:   make([]Window, n),
		Depots:    make([]int, len(trucks)),
	}
	for i, t := range trucks {
		in.Depots[i] = index[t.Warehouse]
	}

	if err := b.primaryMatrices(ctx, &in); err != nil {
		b.log.Warnf("route matrix lookup failed, falling back to distance table: %v", err)
		in.Degraded = true
		b.fallbackMatrices(ctx, &in)
	}

	b.buildWindows(&in, orders)
	return in, nil
}

// locationIndex deduplicates warehouse and ship-to locations while keeping
// first-seen order: truck warehouses first, then order origins, then
// destinations. Node indices are positions in the returned slice.
func locationIndex(orders []model.Order, trucks []model.Truck) ([]string, map[string]int) {
	var locations []string
	index := make(map[string]int)
	add := func(loc string) {
		if _, ok := index[loc]; ok {
			return
		}
		index[loc] = len(locations)
		locations = append(locations, loc)
	}
	for _, t := range trucks {
		add(t.Warehouse)
	}
	for _, o := range orders {
		add(o.ShipFrom)
	}
	for _, o := range orders {
		add(o.ShipTo)
	}
	return locations, index
}

// primaryMatrices queries the mapping service once for the whole location set
// and applies weather adjustments to off-diagonal travel times.
func (b *Builder) primaryMatrices(ctx context.Context, in *Inputs) error {
	if b.maps == nil {
		return geo.ErrUnavailable
	}
	m, err := b.maps.RouteMatrix(ctx, in.Locations)
	if err != nil {
		return err
	}
	n := len(in.Locations)
	if len(m.DistanceKm) != n || len(m.TimeMin) != n {
		return fmt.Errorf("route matrix has %d rows, want %d", len(m.DistanceKm), n)
	}
	for i := 0; i < n; i++ {
		if len(m.DistanceKm[i]) != n || len(m.TimeMin[i]) != n {
			return fmt.Errorf("route matrix row %d is ragged", i)
		}
		for j := 0; j < n; j++ {
			in.Dist.Set(i, j, m.DistanceKm[i][j])
			in.Time.Set(i, j, m.TimeMin[i][j])
		}
	}

	adj := b.weatherAdjustments(ctx, in.Locations)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			in.Time.Set(i, j, in.Time.At(i, j)*(1+adj[j]))
		}
	}
	b.log.Infof("route matrix resolved for %d locations", n)
	return nil
}

// fallbackMatrices fills both matrices from the approximate distance table.
// No weather adjustment is applied on this path.
func (b *Builder) fallbackMatrices(ctx context.Context, in *Inputs) {
	n := len(in.Locations)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km := b.approxDistance(ctx, in.Locations[i], in.Locations[j])
			min := km / b.cfg.AvgSpeedKmh * 60
			in.Dist.Set(i, j, km)
			in.Dist.Set(j, i, km)
			in.Time.Set(i, j, min)
			in.Time.Set(j, i, min)
		}
	}
}

func (b *Builder) approxDistance(ctx context.Context, a, loc string) float64 {
	if b.cache != nil {
		if km, ok := b.cache.Get(ctx, a, loc); ok {
			return km
		}
	}
	km, err := b.estimator.ApproximateDistance(a, loc)
	if err != nil {
		b.log.Warnf("distance estimate %s -> %s failed: %v", a, loc, err)
		return 0
	}
	if b.cache != nil {
		b.cache.Set(ctx, a, loc, km)
	}
	return km
}

// buildWindows derives the service window for each node. A node that is the
// origin of at least one order inherits the window of the first such order's
// priority; depots and destination-only nodes get the full horizon.
func (b *Builder) buildWindows(in *Inputs, orders []model.Order) {
	originPriority := make(map[string]model.OrderPriority, len(orders))
	for _, o := range orders {
		if _, ok := originPriority[o.ShipFrom]; !ok {
			originPriority[o.ShipFrom] = o.Priority
		}
	}
	depots := make(map[int]bool, len(in.Depots))
	for _, d := range in.Depots {
		depots[d] = true
	}
	for i, loc := range in.Locations {
		prio, isOrigin := originPriority[loc]
		if depots[i] || !isOrigin {
			in.Windows[i] = Window{0, b.cfg.HorizonMin}
			continue
		}
		switch prio {
		case model.PriorityHigh:
			in.Windows[i] = Window{0, b.cfg.WindowHighMin}
		case model.PriorityMedium:
			in.Windows[i] = Window{0, b.cfg.WindowMediumMin}
		default:
			in.Windows[i] = Window{0, b.cfg.WindowLowMin}
		}
	}
}
