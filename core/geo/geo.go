// Package geo defines the contracts for distance, travel-time and weather
// lookups consumed by the matrix builder. Implementations live under infra.
package geo

import (
	"context"
	"errors"
)

// ErrUnavailable signals that a provider cannot serve lookups at all, for
// example when no API key is configured. Callers degrade instead of failing.
var ErrUnavailable = errors.New("geo: provider unavailable")

// Matrix holds pairwise distances in kilometers and travel times in minutes
// for an ordered location set.
type Matrix struct {
	DistanceKm [][]float64
	TimeMin    [][]float64
}

// MatrixProvider returns a full route matrix for a location set in one call.
type MatrixProvider interface {
	// RouteMatrix resolves pairwise road distance and travel time for the
	// given locations. Any error triggers the caller's fallback path.
	RouteMatrix(ctx context.Context, locations []string) (Matrix, error)
}

// DistanceEstimator approximates the distance between two named locations
// without calling the mapping service. Used as the degraded path.
type DistanceEstimator interface {
	ApproximateDistance(a, b string) (float64, error)
}

// Forecast is the subset of a weather forecast the engine cares about.
type Forecast struct {
	Condition string
}

// WeatherProvider resolves a short-term forecast for a location.
type WeatherProvider interface {
	Forecast(ctx context.Context, location string, days int) (Forecast, error)
}
