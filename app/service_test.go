package app

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/haulware/routeopt/config"
	"github.com/haulware/routeopt/core/model"
	"github.com/haulware/routeopt/infra/rates"
)

func fleetServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/fleet/trucks":
			fmt.Fprint(w, `[{"id":"t1","warehouse":"Lyon","max_hours":11}]`)
		case "/fleet/trailers":
			fmt.Fprint(w, `[{"id":"tr1","warehouse":"Lyon","max_weight_kg":6000}]`)
		default:
			http.NotFound(w, r)
		}
	}))
}

func testConfig(fleetURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Fleet.BaseURL = fleetURL
	cfg.Rates.Locations = map[string]rates.Coordinate{
		"Lyon":  {Lat: 45.7640, Lon: 4.8357},
		"Paris": {Lat: 48.8566, Lon: 2.3522},
	}
	cfg.Solver.TimeBudgetSeconds = 1
	return cfg
}

func TestServiceOptimizeEndToEnd(t *testing.T) {
	srv := fleetServer(t)
	defer srv.Close()

	ctx := context.Background()
	svc, err := New(ctx, testConfig(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = svc.Close() }()

	orders := []model.Order{
		{ID: "o1", ShipFrom: "Lyon", ShipTo: "Paris", WeightKg: 5000, Status: model.StatusPending},
	}
	res, err := svc.Optimize(ctx, orders)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if len(res.Assignments) != 1 {
		t.Fatalf("assignments = %+v, want one", res.Assignments)
	}
	a := res.Assignments[0]
	if a.TruckID != "t1" || a.TrailerID != "tr1" {
		t.Errorf("assignment = %+v", a)
	}
	if len(res.RouteSummary) != 1 || !res.RouteSummary[0].Accepted {
		t.Fatalf("route summary = %+v", res.RouteSummary)
	}
}

func TestServiceRequiresFleetURL(t *testing.T) {
	cfg := testConfig("")
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error without a fleet base URL")
	}
}
