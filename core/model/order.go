package model

import (
	"fmt"
	"time"
)

// OrderStatus tracks an order through its lifecycle.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAssigned  OrderStatus = "assigned"
	StatusInTransit OrderStatus = "in_transit"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderPriority influences the service time window granted to an order.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "low"
	PriorityMedium OrderPriority = "medium"
	PriorityHigh   OrderPriority = "high"
)

// Special requirement keys recognised on an order.
const (
	ReqHeating       = "requires_heating"
	ReqRefrigeration = "requires_refrigeration"
	ReqHazardous     = "hazardous"
	ReqPalletJack    = "requires_pallet_jack"
)

// Order represents a transportation order pending assignment. Orders are
// produced by upstream ingestion and read-only for the optimization engine
// except for status and assignment fields written after materialization.
type Order struct {
	ID                  string
	CustomerID          string
	CustomerName        string
	ShipFrom            string
	ShipTo              string
	PickupDate          time.Time
	DeliveryDate        time.Time
	Status              OrderStatus
	Priority            OrderPriority
	WeightKg            float64
	VolumeM3            float64
	SpecialRequirements map[string]bool
	Notes               string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Requires reports whether the given special requirement flag is set.
func (o Order) Requires(key string) bool {
	return o.SpecialRequirements[key]
}

// Validate checks that the order carries the fields the engine depends on.
func (o Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order id must not be empty")
	}
	if o.ShipFrom == "" || o.ShipTo == "" {
		return fmt.Errorf("order %s: ship_from and ship_to must not be empty", o.ID)
	}
	if o.WeightKg <= 0 {
		return fmt.Errorf("order %s: weight must be positive", o.ID)
	}
	return nil
}
