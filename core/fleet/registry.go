// Package fleet defines the boundary to the fleet telematics collaborator.
package fleet

import (
	"context"

	"github.com/haulware/routeopt/core/model"
)

// Registry exposes the availability snapshot of trucks and trailers. The
// engine treats the snapshot as immutable for the duration of a batch.
type Registry interface {
	ListAvailableTrucks(ctx context.Context) ([]model.Truck, error)
	ListAvailableTrailers(ctx context.Context) ([]model.Trailer, error)
}

// StaticRegistry serves a fixed fleet, used in tests and one-shot CLI runs.
type StaticRegistry struct {
	Trucks   []model.Truck
	Trailers []model.Trailer
}

func (s StaticRegistry) ListAvailableTrucks(ctx context.Context) ([]model.Truck, error) {
	return append([]model.Truck(nil), s.Trucks...), nil
}

func (s StaticRegistry) ListAvailableTrailers(ctx context.Context) ([]model.Trailer, error) {
	return append([]model.Trailer(nil), s.Trailers...), nil
}
