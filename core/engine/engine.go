// Package engine ties the optimization pipeline together: matrix building,
// the routing solve, economic filtering and assignment materialization.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/haulware/routeopt/core/assign"
	"github.com/haulware/routeopt/core/economics"
	"github.com/haulware/routeopt/core/events"
	"github.com/haulware/routeopt/core/fleet"
	"github.com/haulware/routeopt/core/geomatrix"
	"github.com/haulware/routeopt/core/logger"
	"github.com/haulware/routeopt/core/metrics"
	"github.com/haulware/routeopt/core/model"
	"github.com/haulware/routeopt/core/runlog"
	"github.com/haulware/routeopt/core/solver"
	"github.com/haulware/routeopt/internal/eventbus"
)

// Engine runs one optimization batch at a time. The solver is CPU-bound and
// must not run concurrently against the same fleet snapshot, so Optimize is
// serialized with a mutex.
type Engine struct {
	registry     fleet.Registry
	builder      *geomatrix.Builder
	solver       *solver.Solver
	evaluator    *economics.Evaluator
	materializer *assign.Materializer
	sink         metrics.MetricsSink
	bus          eventbus.EventBus
	runs         runlog.Store
	log          logger.Logger
	mu           sync.Mutex
}

// New creates an Engine. The sink, bus and run store may be nil.
func New(registry fleet.Registry, builder *geomatrix.Builder, sv *solver.Solver, evaluator *economics.Evaluator, materializer *assign.Materializer, sink metrics.MetricsSink, bus eventbus.EventBus, runs runlog.Store, log logger.Logger) (*Engine, error) {
	if registry == nil || builder == nil || sv == nil || evaluator == nil || materializer == nil || log == nil {
		return nil, fmt.Errorf("engine: nil parameter provided to New")
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Engine{
		registry:     registry,
		builder:      builder,
		solver:       sv,
		evaluator:    evaluator,
		materializer: materializer,
		sink:         sink,
		bus:          bus,
		runs:         runs,
		log:          log,
	}, nil
}

// Optimize assigns the pending orders to the available fleet. An empty order
// set, an empty fleet or an infeasible solve all yield an empty result, not
// an error; only a fleet registry failure is returned to the caller.
func (e *Engine) Optimize(ctx context.Context, orders []model.Order) (model.Result, error) {
	result := model.Result{
		BatchID:          uuid.NewString(),
		Assignments:      []model.OrderAssignment{},
		UnassignedOrders: []string{},
		RouteSummary:     []model.RouteMetrics{},
	}
	if len(orders) == 0 {
		return result, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()

	trucks, err := e.registry.ListAvailableTrucks(ctx)
	if err != nil {
		return result, fmt.Errorf("list trucks: %w", err)
	}
	trailers, err := e.registry.ListAvailableTrailers(ctx)
	if err != nil {
		return result, fmt.Errorf("list trailers: %w", err)
	}
	if len(trucks) == 0 || len(trailers) == 0 {
		e.log.Infof("batch %s: no trucks (%d) or trailers (%d) available, nothing to do",
			result.BatchID, len(trucks), len(trailers))
		return result, nil
	}

	e.publish(events.BatchStarted{BatchID: result.BatchID, Orders: len(orders), Trucks: len(trucks), At: start})
	e.log.Infof("batch %s: optimizing %d orders across %d trucks and %d trailers",
		result.BatchID, len(orders), len(trucks), len(trailers))

	in, err := e.builder.Build(ctx, orders, trucks)
	if err != nil {
		return result, fmt.Errorf("build matrices: %w", err)
	}
	if in.Degraded {
		e.publish(events.MatrixFallback{BatchID: result.BatchID})
	}

	sol, err := e.solver.Solve(ctx, toProblem(in))
	if err != nil {
		return result, fmt.Errorf("solve: %w", err)
	}

	candidates, summary := e.evaluateRoutes(result.BatchID, sol, in, orders, trucks)
	result.RouteSummary = summary

	assignments, unassigned := e.materializer.Materialize(ctx, candidates, trailers)
	result.Assignments = assignments
	result.UnassignedOrders = unassigned

	// Orders the solver never routed or whose route was rejected still need
	// manual attention; they must not vanish from the result.
	assigned := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		assigned[a.OrderID] = true
	}
	for _, o := range orders {
		if !assigned[o.ID] && !contains(result.UnassignedOrders, o.ID) {
			result.UnassignedOrders = append(result.UnassignedOrders, o.ID)
		}
	}

	e.finish(ctx, &result, orders, trucks, trailers, in.Degraded, time.Since(start))
	return result, nil
}

func toProblem(in geomatrix.Inputs) solver.Problem {
	windows := make([]solver.Window, len(in.Windows))
	for i, w := range in.Windows {
		windows[i] = solver.Window{Earliest: w.Earliest, Latest: w.Latest}
	}
	return solver.Problem{Dist: in.Dist, Time: in.Time, Windows: windows, Depots: in.Depots}
}

// evaluateRoutes extracts per-vehicle order lists from the solution, prices
// them and returns the profit-ranked accepted candidates together with the
// full route summary. An order is claimed by the first route that reaches its
// destination after having passed its origin; the truck's warehouse counts as
// passed, which covers the common case of orders picked up at the depot.
func (e *Engine) evaluateRoutes(batchID string, sol solver.Solution, in geomatrix.Inputs, orders []model.Order, trucks []model.Truck) ([]assign.Candidate, []model.RouteMetrics) {
	type scored struct {
		cand    assign.Candidate
		metrics model.RouteMetrics
	}
	claimed := make(map[string]bool, len(orders))
	var all []scored

	for _, r := range sol.Routes {
		truck := trucks[r.Vehicle]
		seen := map[string]bool{truck.Warehouse: true}
		var routeOrders []assign.RankedOrder
		for seq, node := range r.Nodes {
			loc := in.Locations[node]
			seen[loc] = true
			for _, o := range orders {
				if claimed[o.ID] || o.ShipTo != loc || !seen[o.ShipFrom] {
					continue
				}
				claimed[o.ID] = true
				routeOrders = append(routeOrders, assign.RankedOrder{
					Order:    o,
					Sequence: seq,
					Revenue:  e.evaluator.OrderRevenue(o, r.DistanceKm),
				})
			}
		}
		if len(routeOrders) == 0 {
			continue
		}

		plain := make([]model.Order, len(routeOrders))
		ids := make([]string, len(routeOrders))
		for i, ro := range routeOrders {
			plain[i] = ro.Order
			ids[i] = ro.Order.ID
		}
		ev := e.evaluator.Evaluate(truck.ID, plain, r.DistanceKm, r.TimeMin)
		rm := model.RouteMetrics{
			TruckID:    truck.ID,
			OrderIDs:   ids,
			DistanceKm: r.DistanceKm,
			TimeMin:    r.TimeMin,
			Revenue:    ev.Revenue,
			Cost:       ev.Cost,
			Profit:     ev.Profit,
			Margin:     ev.Margin,
			Accepted:   ev.Accepted,
			Reason:     ev.Reason,
		}
		if ev.Accepted {
			e.publish(events.RouteAccepted{BatchID: batchID, TruckID: truck.ID, Orders: len(ids), Profit: ev.Profit})
		} else {
			e.publish(events.RouteRejected{BatchID: batchID, TruckID: truck.ID, Profit: ev.Profit, Reason: ev.Reason})
		}
		all = append(all, scored{
			cand:    assign.Candidate{Truck: truck, Orders: routeOrders},
			metrics: rm,
		})
	}

	// Most profitable routes are serviced first when trailer capacity is
	// scarce.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].metrics.Profit > all[j].metrics.Profit
	})

	var candidates []assign.Candidate
	summary := make([]model.RouteMetrics, 0, len(all))
	for _, s := range all {
		summary = append(summary, s.metrics)
		if s.metrics.Accepted {
			candidates = append(candidates, s.cand)
		}
	}
	return candidates, summary
}

// finish records metrics, appends the run log entry and publishes completion.
func (e *Engine) finish(ctx context.Context, result *model.Result, orders []model.Order, trucks []model.Truck, trailers []model.Trailer, degraded bool, elapsed time.Duration) {
	accepted, rejected := 0, 0
	var profit, dist float64
	for _, rm := range result.RouteSummary {
		if rm.Accepted {
			accepted++
			profit += rm.Profit
			dist += rm.DistanceKm
		} else {
			rejected++
		}
	}
	if err := e.sink.RecordBatch(metrics.BatchResult{
		BatchID:          result.BatchID,
		Orders:           len(orders),
		RoutesEvaluated:  len(result.RouteSummary),
		RoutesAccepted:   accepted,
		RoutesRejected:   rejected,
		OrdersAssigned:   len(result.Assignments),
		OrdersUnassigned: len(result.UnassignedOrders),
		TotalProfit:      profit,
		TotalDistanceKm:  dist,
		MatrixFallback:   degraded,
		SolveDuration:    elapsed,
		Timestamp:        time.Now(),
	}); err != nil {
		e.log.Errorf("metrics error: %v", err)
	}

	if e.runs != nil {
		ids := make([]string, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		rec := runlog.Record{
			Timestamp:      time.Now(),
			BatchID:        result.BatchID,
			OrderIDs:       ids,
			Trucks:         len(trucks),
			Trailers:       len(trailers),
			MatrixFallback: degraded,
			Assignments:    result.Assignments,
			Unassigned:     result.UnassignedOrders,
			Routes:         result.RouteSummary,
		}
		if err := e.runs.Append(ctx, rec); err != nil {
			e.log.Errorf("run log append: %v", err)
		}
	}

	e.publish(events.BatchCompleted{
		BatchID:    result.BatchID,
		Assigned:   len(result.Assignments),
		Unassigned: len(result.UnassignedOrders),
		Duration:   elapsed,
	})
	e.log.Infof("batch %s: %d assignments, %d unassigned in %s",
		result.BatchID, len(result.Assignments), len(result.UnassignedOrders), elapsed)
}

func (e *Engine) publish(ev eventbus.Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
