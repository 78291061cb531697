package model

// Truck represents an available power unit. Its warehouse doubles as the
// routing depot: every route starts and ends there.
type Truck struct {
	ID           string
	Name         string
	Driver       string
	Warehouse    string
	CurrentHours float64
	MaxHours     float64
}

// RemainingHours returns the duty hours left for the driver.
func (t Truck) RemainingHours() float64 {
	rem := t.MaxHours - t.CurrentHours
	if rem < 0 {
		return 0
	}
	return rem
}

// Trailer represents a trailer parked at a warehouse. CurrentWeightKg is the
// running load for the batch in progress; it only ever grows within a single
// optimization pass.
type Trailer struct {
	ID              string
	Name            string
	Warehouse       string
	MaxWeightKg     float64
	CurrentWeightKg float64
	HasPalletJack   bool
	Refrigerated    bool
}

// CanCarry reports whether the trailer can take the order on top of its
// current load and satisfies the order's equipment requirements.
func (tr Trailer) CanCarry(o Order) bool {
	if tr.Warehouse != o.ShipFrom {
		return false
	}
	if tr.CurrentWeightKg+o.WeightKg > tr.MaxWeightKg {
		return false
	}
	if (o.Requires(ReqRefrigeration) || o.Requires(ReqHeating)) && !tr.Refrigerated {
		return false
	}
	if o.Requires(ReqPalletJack) && !tr.HasPalletJack {
		return false
	}
	return true
}
