package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/haulware/routeopt/core/assign"
	"github.com/haulware/routeopt/core/economics"
	"github.com/haulware/routeopt/core/events"
	"github.com/haulware/routeopt/core/fleet"
	"github.com/haulware/routeopt/core/geomatrix"
	"github.com/haulware/routeopt/core/model"
	"github.com/haulware/routeopt/core/solver"
	"github.com/haulware/routeopt/infra/store"
	"github.com/haulware/routeopt/internal/eventbus"
)

type nopLog struct{}

func (nopLog) Debugf(string, ...any)         {}
func (nopLog) Debugw(string, map[string]any) {}
func (nopLog) Infof(string, ...any)          {}
func (nopLog) Warnf(string, ...any)          {}
func (nopLog) Errorf(string, ...any)         {}

// tableEstimator serves the static distances the degraded path falls back to.
type tableEstimator map[string]float64

func (e tableEstimator) ApproximateDistance(a, b string) (float64, error) {
	if b < a {
		a, b = b, a
	}
	if km, ok := e[a+"|"+b]; ok {
		return km, nil
	}
	return 0, fmt.Errorf("unknown pair %s-%s", a, b)
}

type errRegistry struct{}

func (errRegistry) ListAvailableTrucks(ctx context.Context) ([]model.Truck, error) {
	return nil, fmt.Errorf("telematics unreachable")
}

func (errRegistry) ListAvailableTrailers(ctx context.Context) ([]model.Trailer, error) {
	return nil, fmt.Errorf("telematics unreachable")
}

type fixture struct {
	engine *Engine
	store  *store.MemoryStore
	bus    *eventbus.Bus
}

func newFixture(t *testing.T, registry fleet.Registry) fixture {
	t.Helper()
	log := nopLog{}
	est := tableEstimator{"City|WH": 100}
	builder, err := geomatrix.NewBuilder(nil, nil, est, nil, geomatrix.Config{}, log)
	if err != nil {
		t.Fatalf("builder: %v", err)
	}
	sv, err := solver.New(solver.Config{TimeBudgetSeconds: 1}, log)
	if err != nil {
		t.Fatalf("solver: %v", err)
	}
	evaluator, err := economics.New(economics.Config{}, log)
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	st := store.NewMemoryStore()
	materializer, err := assign.New(st, log)
	if err != nil {
		t.Fatalf("materializer: %v", err)
	}
	bus := eventbus.New()
	eng, err := New(registry, builder, sv, evaluator, materializer, nil, bus, nil, log)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return fixture{engine: eng, store: st, bus: bus}
}

func testFleet(trailerKg float64) fleet.StaticRegistry {
	return fleet.StaticRegistry{
		Trucks:   []model.Truck{{ID: "t1", Warehouse: "WH", MaxHours: 11}},
		Trailers: []model.Trailer{{ID: "tr1", Warehouse: "WH", MaxWeightKg: trailerKg}},
	}
}

func order(id string, kg float64) model.Order {
	return model.Order{ID: id, ShipFrom: "WH", ShipTo: "City", WeightKg: kg, Status: model.StatusPending}
}

func TestOptimizeEmptyOrders(t *testing.T) {
	f := newFixture(t, testFleet(2000))
	res, err := f.engine.Optimize(context.Background(), nil)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if res.BatchID == "" {
		t.Error("expected a batch id")
	}
	if res.Assignments == nil || res.UnassignedOrders == nil || res.RouteSummary == nil {
		t.Error("result slices must be non-nil")
	}
	if len(res.Assignments) != 0 || len(res.UnassignedOrders) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestOptimizeEmptyFleet(t *testing.T) {
	f := newFixture(t, fleet.StaticRegistry{})
	res, err := f.engine.Optimize(context.Background(), []model.Order{order("o1", 500)})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Assignments) != 0 {
		t.Errorf("assignments = %+v, want none without a fleet", res.Assignments)
	}
}

func TestOptimizeRegistryError(t *testing.T) {
	f := newFixture(t, errRegistry{})
	if _, err := f.engine.Optimize(context.Background(), []model.Order{order("o1", 500)}); err == nil {
		t.Fatal("expected registry error to surface")
	}
}

func TestOptimizeAssignsProfitableOrder(t *testing.T) {
	f := newFixture(t, testFleet(3000))
	res, err := f.engine.Optimize(context.Background(), []model.Order{order("o1", 2000)})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("assignments = %+v, want one", res.Assignments)
	}
	a := res.Assignments[0]
	if a.OrderID != "o1" || a.TruckID != "t1" || a.TrailerID != "tr1" {
		t.Fatalf("assignment = %+v", a)
	}
	if len(res.UnassignedOrders) != 0 {
		t.Errorf("unassigned = %v, want none", res.UnassignedOrders)
	}
	if len(res.RouteSummary) != 1 || !res.RouteSummary[0].Accepted {
		t.Fatalf("route summary = %+v, want one accepted route", res.RouteSummary)
	}
	if res.RouteSummary[0].Profit <= 0 {
		t.Errorf("profit = %.2f, want positive", res.RouteSummary[0].Profit)
	}
	if st, _ := f.store.Status("o1"); st != model.StatusAssigned {
		t.Errorf("status = %q, want assigned", st)
	}
}

func TestOptimizeScarceCapacityKeepsHigherRevenueOrder(t *testing.T) {
	f := newFixture(t, testFleet(2000))
	orders := []model.Order{order("small", 500), order("big", 1800)}
	res, err := f.engine.Optimize(context.Background(), orders)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Assignments) != 1 || res.Assignments[0].OrderID != "big" {
		t.Fatalf("assignments = %+v, want only the big order", res.Assignments)
	}
	if len(res.UnassignedOrders) != 1 || res.UnassignedOrders[0] != "small" {
		t.Fatalf("unassigned = %v, want [small]", res.UnassignedOrders)
	}
}

func TestOptimizeUnprofitableRouteRejected(t *testing.T) {
	f := newFixture(t, testFleet(2000))
	res, err := f.engine.Optimize(context.Background(), []model.Order{order("tiny", 10)})
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Assignments) != 0 {
		t.Fatalf("assignments = %+v, want none", res.Assignments)
	}
	if len(res.RouteSummary) != 1 || res.RouteSummary[0].Accepted {
		t.Fatalf("route summary = %+v, want one rejected route", res.RouteSummary)
	}
	if res.RouteSummary[0].Reason != "unprofitable" {
		t.Errorf("reason = %q, want unprofitable", res.RouteSummary[0].Reason)
	}
	if len(res.UnassignedOrders) != 1 || res.UnassignedOrders[0] != "tiny" {
		t.Fatalf("unassigned = %v, want [tiny]", res.UnassignedOrders)
	}
}

func TestOptimizePublishesLifecycleEvents(t *testing.T) {
	f := newFixture(t, testFleet(3000))
	sub := f.bus.Subscribe()
	defer f.bus.Unsubscribe(sub)

	if _, err := f.engine.Optimize(context.Background(), []model.Order{order("o1", 2000)}); err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	var started, fallback, accepted, completed bool
	for len(sub) > 0 {
		switch (<-sub).(type) {
		case events.BatchStarted:
			started = true
		case events.MatrixFallback:
			fallback = true
		case events.RouteAccepted:
			accepted = true
		case events.BatchCompleted:
			completed = true
		}
	}
	if !started || !accepted || !completed {
		t.Errorf("missing lifecycle events: started=%v accepted=%v completed=%v", started, accepted, completed)
	}
	// No mapping provider is wired, so every batch degrades to the table.
	if !fallback {
		t.Error("expected a matrix fallback event")
	}
}
