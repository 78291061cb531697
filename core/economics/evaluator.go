// Package economics prices candidate routes and decides whether a feasible
// route is worth running. A route that survives the solver can still be
// rejected here when its profit does not clear the configured floor.
package economics

import (
	"fmt"

	"github.com/haulware/routeopt/core/logger"
	"github.com/haulware/routeopt/core/model"
)

// Config defines the revenue and cost rates. All rates are per unit and
// linear; the engine stays deliberately simple here.
type Config struct {
	BaseRatePerKg       float64 `json:"base_rate_per_kg"`
	DistanceFactorPerKm float64 `json:"distance_factor_per_km"`
	HeatingSurcharge    float64 `json:"heating_surcharge"`
	HazardousSurcharge  float64 `json:"hazardous_surcharge"`

	FuelCostPerKm        float64 `json:"fuel_cost_per_km"`
	DriverCostPerHour    float64 `json:"driver_cost_per_hour"`
	MaintenanceCostPerKm float64 `json:"maintenance_cost_per_km"`
	OverheadBase         float64 `json:"overhead_base"`
	OverheadPerHour      float64 `json:"overhead_per_hour"`

	// MinMargin optionally gates acceptance on profit/revenue. Zero keeps
	// the bare profit > 0 rule.
	MinMargin float64 `json:"min_margin"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BaseRatePerKg <= 0 {
		c.BaseRatePerKg = 0.10
	}
	if c.DistanceFactorPerKm <= 0 {
		c.DistanceFactorPerKm = 0.001
	}
	if c.HeatingSurcharge <= 0 {
		c.HeatingSurcharge = 0.3
	}
	if c.HazardousSurcharge <= 0 {
		c.HazardousSurcharge = 0.5
	}
	if c.FuelCostPerKm <= 0 {
		c.FuelCostPerKm = 0.35
	}
	if c.DriverCostPerHour <= 0 {
		c.DriverCostPerHour = 25
	}
	if c.MaintenanceCostPerKm <= 0 {
		c.MaintenanceCostPerKm = 0.05
	}
	if c.OverheadBase <= 0 {
		c.OverheadBase = 50
	}
	if c.OverheadPerHour <= 0 {
		c.OverheadPerHour = 2
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.MinMargin < 0 || c.MinMargin >= 1 {
		return fmt.Errorf("min_margin must be in [0, 1)")
	}
	return nil
}

// Evaluation is the economic verdict for one candidate route.
type Evaluation struct {
	Revenue  float64
	Cost     float64
	Profit   float64
	Margin   float64
	Accepted bool
	Reason   string
}

// Evaluator computes route economics.
type Evaluator struct {
	cfg Config
	log logger.Logger
}

// New creates an Evaluator.
func New(cfg Config, log logger.Logger) (*Evaluator, error) {
	if log == nil {
		return nil, fmt.Errorf("economics: logger is required")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{cfg: cfg, log: log}, nil
}

// Evaluate prices a route of orders with the given totals and decides
// acceptance. Rejections are logged with the computed profit so they can be
// told apart from solver infeasibility.
func (e *Evaluator) Evaluate(truckID string, orders []model.Order, distKm, timeMin float64) Evaluation {
	ev := Evaluation{}
	for _, o := range orders {
		ev.Revenue += e.OrderRevenue(o, distKm)
	}
	ev.Cost = e.routeCost(distKm, timeMin)
	ev.Profit = ev.Revenue - ev.Cost
	if ev.Revenue > 0 {
		ev.Margin = ev.Profit / ev.Revenue
	}

	switch {
	case ev.Profit <= 0:
		ev.Reason = "unprofitable"
		e.log.Infof("rejecting route for truck %s: profit $%.2f <= 0", truckID, ev.Profit)
	case ev.Margin < e.cfg.MinMargin:
		ev.Reason = "margin below floor"
		e.log.Infof("rejecting route for truck %s: margin %.2f%% below floor %.2f%%",
			truckID, ev.Margin*100, e.cfg.MinMargin*100)
	default:
		ev.Accepted = true
	}
	return ev
}

// OrderRevenue prices a single order on a route of the given total distance.
// The distance factor is floored at 1 so short hauls never discount below the
// weight-based base rate.
func (e *Evaluator) OrderRevenue(o model.Order, distKm float64) float64 {
	factor := 1 + e.cfg.DistanceFactorPerKm*distKm
	if factor < 1 {
		factor = 1
	}
	mult := 1.0
	if o.Requires(model.ReqHeating) || o.Requires(model.ReqRefrigeration) {
		mult += e.cfg.HeatingSurcharge
	}
	if o.Requires(model.ReqHazardous) {
		mult += e.cfg.HazardousSurcharge
	}
	return e.cfg.BaseRatePerKg * o.WeightKg * factor * mult
}

func (e *Evaluator) routeCost(distKm, timeMin float64) float64 {
	hours := timeMin / 60
	fuel := distKm * e.cfg.FuelCostPerKm
	driver := hours * e.cfg.DriverCostPerHour
	maintenance := distKm * e.cfg.MaintenanceCostPerKm
	overhead := e.cfg.OverheadBase + hours*e.cfg.OverheadPerHour
	return fuel + driver + maintenance + overhead
}
