// Package assign walks accepted route candidates in rank order, binds a
// trailer to every order it can, and emits persisted assignment records.
package assign

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/haulware/routeopt/core/logger"
	"github.com/haulware/routeopt/core/model"
	"github.com/haulware/routeopt/core/storage"
)

// Actor recorded on every assignment emitted by this engine.
const Actor = "optimization_engine"

// RankedOrder is one order of a candidate route together with its visit
// position and revenue contribution. Revenue drives binding order when
// trailer capacity is scarce.
type RankedOrder struct {
	Order    model.Order
	Sequence int
	Revenue  float64
}

// Candidate is an economically accepted route awaiting materialization.
type Candidate struct {
	Truck  model.Truck
	Orders []RankedOrder
}

// Materializer binds trailers to orders and persists the resulting records.
// Trailer weight mutation is strictly sequential; there is no retry once a
// trailer search fails for an order.
type Materializer struct {
	store storage.AssignmentStore
	log   logger.Logger
	now   func() time.Time
}

// New creates a Materializer. The store may be nil, in which case records are
// only returned in memory.
func New(store storage.AssignmentStore, log logger.Logger) (*Materializer, error) {
	if log == nil {
		return nil, fmt.Errorf("assign: logger is required")
	}
	return &Materializer{store: store, log: log, now: time.Now}, nil
}

// Materialize processes candidates in the given rank order. Within one route,
// orders are bound most-valuable first so the higher-revenue order wins the
// last of a trailer's capacity; the emitted Sequence keeps the visit
// position. Orders with no qualifying trailer are returned as unassigned.
func (m *Materializer) Materialize(ctx context.Context, candidates []Candidate, trailers []model.Trailer) ([]model.OrderAssignment, []string) {
	var assignments []model.OrderAssignment
	var unassigned []string

	for _, cand := range candidates {
		byRevenue := append([]RankedOrder(nil), cand.Orders...)
		sort.SliceStable(byRevenue, func(i, j int) bool {
			return byRevenue[i].Revenue > byRevenue[j].Revenue
		})
		for _, ro := range byRevenue {
			idx := m.findTrailer(ro.Order, trailers)
			if idx < 0 {
				m.log.Warnf("no qualifying trailer for order %s at %s (%.0f kg), needs manual assignment",
					ro.Order.ID, ro.Order.ShipFrom, ro.Order.WeightKg)
				unassigned = append(unassigned, ro.Order.ID)
				continue
			}
			trailers[idx].CurrentWeightKg += ro.Order.WeightKg
			a := model.OrderAssignment{
				OrderID:    ro.Order.ID,
				TruckID:    cand.Truck.ID,
				TrailerID:  trailers[idx].ID,
				Sequence:   ro.Sequence,
				AssignedBy: Actor,
				AssignedAt: m.now(),
			}
			assignments = append(assignments, a)
			m.persist(ctx, a)
		}
	}
	return assignments, unassigned
}

// findTrailer returns the index of the first trailer in pool order that can
// carry the order, or -1. First match wins; no tie-break beyond pool order.
func (m *Materializer) findTrailer(o model.Order, trailers []model.Trailer) int {
	for i, tr := range trailers {
		if tr.CanCarry(o) {
			return i
		}
	}
	return -1
}

// persist writes the record and flips the order status. Persistence failures
// are logged but never undo the in-memory assignment.
func (m *Materializer) persist(ctx context.Context, a model.OrderAssignment) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveAssignment(ctx, a); err != nil {
		m.log.Errorf("save assignment for order %s: %v", a.OrderID, err)
		return
	}
	if err := m.store.UpdateOrderStatus(ctx, a.OrderID, model.StatusAssigned); err != nil {
		m.log.Errorf("update status for order %s: %v", a.OrderID, err)
	}
}
