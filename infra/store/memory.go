package store

import (
	"context"
	"sync"

	"github.com/haulware/routeopt/core/model"
)

// MemoryStore keeps assignments in memory. Used by tests and dry runs.
type MemoryStore struct {
	mu          sync.Mutex
	orders      []model.Order
	assignments []model.OrderAssignment
	statuses    map[string]model.OrderStatus
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{statuses: make(map[string]model.OrderStatus)}
}

func (s *MemoryStore) SaveAssignment(ctx context.Context, a model.OrderAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments = append(s.assignments, a)
	return nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[orderID] = status
	return nil
}

// SeedOrders loads orders for ListPendingOrders to return.
func (s *MemoryStore) SeedOrders(orders []model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, orders...)
}

// ListPendingOrders returns the seeded orders whose status was not updated
// away from pending.
func (s *MemoryStore) ListPendingOrders(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []model.Order
	for _, o := range s.orders {
		if st, ok := s.statuses[o.ID]; ok && st != model.StatusPending {
			continue
		}
		pending = append(pending, o)
	}
	return pending, nil
}

// Assignments returns a copy of the persisted records.
func (s *MemoryStore) Assignments() []model.OrderAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderAssignment(nil), s.assignments...)
}

// Status returns the last status written for an order.
func (s *MemoryStore) Status(orderID string) (model.OrderStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[orderID]
	return st, ok
}
