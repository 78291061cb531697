// Package runlog persists one record per optimization batch for operator
// review and audit.
package runlog

import (
	"context"
	"time"

	"github.com/haulware/routeopt/core/model"
)

// Record captures one optimization batch and its outcome.
type Record struct {
	Timestamp      time.Time               `json:"timestamp"`
	BatchID        string                  `json:"batch_id"`
	OrderIDs       []string                `json:"order_ids"`
	Trucks         int                     `json:"trucks"`
	Trailers       int                     `json:"trailers"`
	MatrixFallback bool                    `json:"matrix_fallback"`
	Assignments    []model.OrderAssignment `json:"assignments"`
	Unassigned     []string                `json:"unassigned"`
	Routes         []model.RouteMetrics    `json:"routes"`
}

// Query defines filters for retrieving records.
type Query struct {
	Start   time.Time
	End     time.Time
	BatchID string
	OrderID string
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
