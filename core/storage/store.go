// Package storage defines the persistence boundary for assignment records.
package storage

import (
	"context"

	"github.com/haulware/routeopt/core/model"
)

// AssignmentStore persists assignment records and order status transitions.
// Implementations must be safe for sequential use within one batch.
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a model.OrderAssignment) error
	UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error
}

// OrderSource yields the orders pending assignment. The scheduled service
// pulls its batches from here; library callers pass orders directly.
type OrderSource interface {
	ListPendingOrders(ctx context.Context) ([]model.Order, error)
}
