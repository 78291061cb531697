// Package cache defines the distance cache consulted by the fallback path.
package cache

import "context"

// DistanceCache stores approximate distances between location pairs.
// Implementations choose the entry lifetime; lookups must never fail the
// caller.
type DistanceCache interface {
	Get(ctx context.Context, a, b string) (float64, bool)
	Set(ctx context.Context, a, b string, km float64)
}
