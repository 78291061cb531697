// Package solver formulates the batch as a capacitated vehicle routing
// problem with time windows and solves it heuristically within a wall-clock
// budget: cheapest-arc construction followed by 2-opt improvement.
package solver

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/haulware/routeopt/core/logger"
)

// Config defines solve parameters.
type Config struct {
	// TimeBudgetSeconds caps the wall-clock time spent improving the first
	// feasible solution.
	TimeBudgetSeconds int `json:"time_budget_seconds"`
	// MaxLegMin caps a single arc's travel time to keep degenerate matrix
	// entries from producing absurd legs.
	MaxLegMin int `json:"max_leg_min"`
	// HorizonMin bounds the cumulative route time per vehicle.
	HorizonMin int `json:"horizon_min"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeBudgetSeconds <= 0 {
		c.TimeBudgetSeconds = 30
	}
	if c.MaxLegMin <= 0 {
		c.MaxLegMin = 1440
	}
	if c.HorizonMin <= 0 {
		c.HorizonMin = 1440
	}
}

// Window is the [earliest, latest] service interval of a node in minutes
// from route start.
type Window struct {
	Earliest int
	Latest   int
}

// Problem is one routing instance. Dist is in kilometers, Time in minutes.
// Depots holds the depot node of each vehicle in vehicle order.
type Problem struct {
	Dist    *mat.Dense
	Time    *mat.Dense
	Windows []Window
	Depots  []int
}

// Route is one vehicle's solved stop sequence. Nodes excludes the depot; the
// distance and time totals include the return leg to the depot.
type Route struct {
	Vehicle    int
	Nodes      []int
	DistanceKm float64
	TimeMin    float64
}

// Solution holds one route per vehicle, possibly empty.
type Solution struct {
	Routes []Route
}

// Solver runs the heuristic solve. It is stateless between calls but must not
// be invoked concurrently for the same fleet snapshot.
type Solver struct {
	cfg Config
	log logger.Logger
}

// New creates a Solver.
func New(cfg Config, log logger.Logger) (*Solver, error) {
	if log == nil {
		return nil, fmt.Errorf("solver: logger is required")
	}
	cfg.SetDefaults()
	return &Solver{cfg: cfg, log: log}, nil
}

// Solve builds feasible time-windowed routes for all vehicles. Nodes that
// cannot be served within their window are left unrouted; infeasibility is
// never an error. The best solution found when the budget expires is
// returned.
func (s *Solver) Solve(ctx context.Context, p Problem) (Solution, error) {
	if err := validate(p); err != nil {
		return Solution{}, err
	}
	if len(p.Depots) == 0 {
		return Solution{}, nil
	}

	deadline := time.Now().Add(time.Duration(s.cfg.TimeBudgetSeconds) * time.Second)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	sol := s.construct(p)
	visited := 0
	for _, r := range sol.Routes {
		visited += len(r.Nodes)
	}
	if visited == 0 {
		s.log.Warnf("no feasible route found for %d nodes", nodeCount(p)-len(p.Depots))
		return sol, nil
	}

	s.improve(&sol, p, deadline)
	s.log.Infof("solved %d nodes across %d vehicles (%.2f km total)", visited, len(p.Depots), totalDistance(sol))
	return sol, nil
}

func validate(p Problem) error {
	if p.Dist == nil || p.Time == nil {
		return fmt.Errorf("solver: distance and time matrices are required")
	}
	n, c := p.Dist.Dims()
	if n != c {
		return fmt.Errorf("solver: distance matrix is %dx%d, want square", n, c)
	}
	if tn, tc := p.Time.Dims(); tn != n || tc != n {
		return fmt.Errorf("solver: time matrix is %dx%d, want %dx%d", tn, tc, n, n)
	}
	if len(p.Windows) != n {
		return fmt.Errorf("solver: %d windows for %d nodes", len(p.Windows), n)
	}
	for _, d := range p.Depots {
		if d < 0 || d >= n {
			return fmt.Errorf("solver: depot index %d out of range", d)
		}
	}
	return nil
}

func nodeCount(p Problem) int {
	n, _ := p.Dist.Dims()
	return n
}

func totalDistance(sol Solution) float64 {
	var total float64
	for _, r := range sol.Routes {
		total += r.DistanceKm
	}
	return total
}

// construct builds the first feasible solution with a cheapest-arc greedy:
// each vehicle repeatedly extends its route with the closest unvisited node
// that keeps the schedule inside every window and the horizon.
func (s *Solver) construct(p Problem) Solution {
	n := nodeCount(p)
	depot := make(map[int]bool, len(p.Depots))
	for _, d := range p.Depots {
		depot[d] = true
	}
	visited := make([]bool, n)

	sol := Solution{Routes: make([]Route, len(p.Depots))}
	for v, start := range p.Depots {
		route := Route{Vehicle: v}
		cur := start
		clock := 0.0
		for {
			next := -1
			bestDist := 0.0
			for j := 0; j < n; j++ {
				if j == cur || visited[j] || depot[j] {
					continue
				}
				arrival, ok := s.feasibleArrival(p, cur, j, clock)
				if !ok {
					continue
				}
				// The vehicle must still be able to return home.
				if arrival+p.Time.At(j, start) > float64(s.cfg.HorizonMin) {
					continue
				}
				d := p.Dist.At(cur, j)
				if next == -1 || d < bestDist {
					next = j
					bestDist = d
				}
			}
			if next == -1 {
				break
			}
			arrival, _ := s.feasibleArrival(p, cur, next, clock)
			route.DistanceKm += p.Dist.At(cur, next)
			clock = arrival
			visited[next] = true
			route.Nodes = append(route.Nodes, next)
			cur = next
		}
		if len(route.Nodes) > 0 {
			route.DistanceKm += p.Dist.At(cur, start)
			clock += p.Time.At(cur, start)
		}
		route.TimeMin = clock
		sol.Routes[v] = route
	}
	return sol
}

// feasibleArrival returns the service start time at node j when leaving the
// current node at clock, or false when the leg or window is infeasible.
// Arriving before the window opens means waiting until it does.
func (s *Solver) feasibleArrival(p Problem, cur, j int, clock float64) (float64, bool) {
	leg := p.Time.At(cur, j)
	if leg > float64(s.cfg.MaxLegMin) {
		return 0, false
	}
	arrival := clock + leg
	w := p.Windows[j]
	if arrival < float64(w.Earliest) {
		arrival = float64(w.Earliest)
	}
	if arrival > float64(w.Latest) {
		return 0, false
	}
	return arrival, true
}
