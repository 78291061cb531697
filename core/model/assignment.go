package model

import (
	"fmt"
	"strings"
	"time"
)

// OrderAssignment is the append-only record binding an order to a truck and
// trailer at a given position of the truck's route.
type OrderAssignment struct {
	OrderID    string
	TruckID    string
	TrailerID  string
	Sequence   int
	AssignedBy string
	AssignedAt time.Time
}

// RouteMetrics summarises one vehicle's candidate route after economic
// evaluation. Rejected routes keep their numbers so operators can see why a
// feasible route was dropped.
type RouteMetrics struct {
	TruckID    string
	OrderIDs   []string
	DistanceKm float64
	TimeMin    float64
	Revenue    float64
	Cost       float64
	Profit     float64
	Margin     float64
	Accepted   bool
	Reason     string
}

// Result is the outcome of one optimization batch.
type Result struct {
	BatchID          string
	Assignments      []OrderAssignment
	UnassignedOrders []string
	RouteSummary     []RouteMetrics
}

// Summary renders a human-readable report of the batch for operator review.
func (r Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "optimization batch %s\n", r.BatchID)
	fmt.Fprintf(&b, "routes: %d, assignments: %d, unassigned: %d\n",
		len(r.RouteSummary), len(r.Assignments), len(r.UnassignedOrders))

	var revenue, cost, profit, dist, mins float64
	for _, rm := range r.RouteSummary {
		revenue += rm.Revenue
		cost += rm.Cost
		profit += rm.Profit
		dist += rm.DistanceKm
		mins += rm.TimeMin
	}
	margin := 0.0
	if revenue > 0 {
		margin = profit / revenue * 100
	}
	fmt.Fprintf(&b, "revenue: $%.2f, cost: $%.2f, profit: $%.2f (margin %.2f%%)\n",
		revenue, cost, profit, margin)
	fmt.Fprintf(&b, "distance: %.2f km, time: %.2f h\n", dist, mins/60)

	for i, rm := range r.RouteSummary {
		status := "accepted"
		if !rm.Accepted {
			status = "rejected: " + rm.Reason
		}
		fmt.Fprintf(&b, "  route %d (truck %s, %d orders): %.2f km, %.2f h, profit $%.2f, margin %.2f%% [%s]\n",
			i+1, rm.TruckID, len(rm.OrderIDs), rm.DistanceKm, rm.TimeMin/60, rm.Profit, rm.Margin*100, status)
	}
	if len(r.UnassignedOrders) > 0 {
		fmt.Fprintf(&b, "needs manual assignment: %s\n", strings.Join(r.UnassignedOrders, ", "))
	}
	return b.String()
}
