package model

import (
	"strings"
	"testing"
)

func TestOrderValidate(t *testing.T) {
	valid := Order{ID: "o1", ShipFrom: "Lyon", ShipTo: "Paris", WeightKg: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}
	cases := []struct {
		name  string
		order Order
	}{
		{"missing id", Order{ShipFrom: "Lyon", ShipTo: "Paris", WeightKg: 100}},
		{"missing ship_from", Order{ID: "o1", ShipTo: "Paris", WeightKg: 100}},
		{"missing ship_to", Order{ID: "o1", ShipFrom: "Lyon", WeightKg: 100}},
		{"zero weight", Order{ID: "o1", ShipFrom: "Lyon", ShipTo: "Paris"}},
	}
	for _, c := range cases {
		if err := c.order.Validate(); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestOrderRequires(t *testing.T) {
	o := Order{SpecialRequirements: map[string]bool{ReqHazardous: true, ReqHeating: false}}
	if !o.Requires(ReqHazardous) {
		t.Error("hazardous flag not read")
	}
	if o.Requires(ReqHeating) {
		t.Error("false flag reported as set")
	}
	var empty Order
	if empty.Requires(ReqPalletJack) {
		t.Error("nil requirements map should report nothing")
	}
}

func TestTruckRemainingHours(t *testing.T) {
	if got := (Truck{CurrentHours: 3, MaxHours: 11}).RemainingHours(); got != 8 {
		t.Errorf("remaining = %.1f, want 8", got)
	}
	if got := (Truck{CurrentHours: 12, MaxHours: 11}).RemainingHours(); got != 0 {
		t.Errorf("overworked truck remaining = %.1f, want 0", got)
	}
}

func TestTrailerCanCarry(t *testing.T) {
	tr := Trailer{Warehouse: "WH", MaxWeightKg: 2000, CurrentWeightKg: 500, Refrigerated: true}
	cases := []struct {
		name  string
		order Order
		want  bool
	}{
		{"fits", Order{ShipFrom: "WH", WeightKg: 1000}, true},
		{"exactly at capacity", Order{ShipFrom: "WH", WeightKg: 1500}, true},
		{"over capacity with running load", Order{ShipFrom: "WH", WeightKg: 1501}, false},
		{"wrong warehouse", Order{ShipFrom: "Elsewhere", WeightKg: 100}, false},
		{"refrigerated ok", Order{ShipFrom: "WH", WeightKg: 100, SpecialRequirements: map[string]bool{ReqRefrigeration: true}}, true},
		{"pallet jack missing", Order{ShipFrom: "WH", WeightKg: 100, SpecialRequirements: map[string]bool{ReqPalletJack: true}}, false},
	}
	for _, c := range cases {
		if got := tr.CanCarry(c.order); got != c.want {
			t.Errorf("%s: CanCarry = %v, want %v", c.name, got, c.want)
		}
	}

	dry := Trailer{Warehouse: "WH", MaxWeightKg: 2000}
	cold := Order{ShipFrom: "WH", WeightKg: 100, SpecialRequirements: map[string]bool{ReqHeating: true}}
	if dry.CanCarry(cold) {
		t.Error("heated load must not ride a dry trailer")
	}
}

func TestResultSummary(t *testing.T) {
	r := Result{
		BatchID: "b1",
		Assignments: []OrderAssignment{
			{OrderID: "o1", TruckID: "t1", TrailerID: "tr1"},
		},
		UnassignedOrders: []string{"o2"},
		RouteSummary: []RouteMetrics{
			{TruckID: "t1", OrderIDs: []string{"o1"}, DistanceKm: 100, TimeMin: 120, Revenue: 240, Cost: 200, Profit: 40, Margin: 0.1667, Accepted: true},
			{TruckID: "t2", OrderIDs: []string{"o2"}, Profit: -5, Reason: "unprofitable"},
		},
	}
	s := r.Summary()
	for _, want := range []string{
		"batch b1",
		"routes: 2, assignments: 1, unassigned: 1",
		"rejected: unprofitable",
		"needs manual assignment: o2",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}
