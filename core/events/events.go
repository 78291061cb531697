// Package events holds the engine lifecycle events published on the bus.
package events

import "time"

// BatchStarted is published when an optimization batch begins.
type BatchStarted struct {
	BatchID string
	Orders  int
	Trucks  int
	At      time.Time
}

// MatrixFallback is published when the mapping service was unavailable and
// the batch degraded to the approximate distance table.
type MatrixFallback struct {
	BatchID string
	Err     error
}

// RouteAccepted is published for every route that cleared the profit filter.
type RouteAccepted struct {
	BatchID string
	TruckID string
	Orders  int
	Profit  float64
}

// RouteRejected is published when a feasible route was dropped on economics.
type RouteRejected struct {
	BatchID string
	TruckID string
	Profit  float64
	Reason  string
}

// BatchCompleted is published with the batch outcome counts.
type BatchCompleted struct {
	BatchID    string
	Assigned   int
	Unassigned int
	Duration   time.Duration
}
