// Package store provides AssignmentStore implementations: Postgres for
// production and an in-memory store for tests and dry runs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/haulware/routeopt/core/model"
)

// Config defines database settings.
type Config struct {
	DSN            string `json:"dsn"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// PostgresStore persists assignments with pgx.
type PostgresStore struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPostgresStore connects to the database and verifies the connection.
func NewPostgresStore(ctx context.Context, cfg Config) (*PostgresStore, error) {
	cfg.SetDefaults()
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TimeoutSeconds)*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &PostgresStore{pool: pool, timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}, nil
}

// SaveAssignment appends one assignment record.
func (s *PostgresStore) SaveAssignment(ctx context.Context, a model.OrderAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO order_assignments (order_id, truck_id, trailer_id, sequence, assigned_by, assigned_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.OrderID, a.TruckID, a.TrailerID, a.Sequence, a.AssignedBy, a.AssignedAt)
	if err != nil {
		return fmt.Errorf("store: save assignment %s: %w", a.OrderID, err)
	}
	return nil
}

// UpdateOrderStatus flips an order's status.
func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), orderID)
	if err != nil {
		return fmt.Errorf("store: update order %s: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: order %s not found", orderID)
	}
	return nil
}

// ListPendingOrders returns the orders awaiting assignment, oldest first.
func (s *PostgresStore) ListPendingOrders(ctx context.Context) ([]model.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
		SELECT id, customer_id, customer_name, ship_from, ship_to,
		       pickup_date, delivery_date, priority, weight_kg, volume_m3,
		       special_requirements, notes, created_at, updated_at
		FROM orders WHERE status = $1 ORDER BY created_at`,
		string(model.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("store: list pending orders: %w", err)
	}
	defer rows.Close()
	var orders []model.Order
	for rows.Next() {
		o := model.Order{Status: model.StatusPending}
		var prio string
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &o.ShipFrom, &o.ShipTo,
			&o.PickupDate, &o.DeliveryDate, &prio, &o.WeightKg, &o.VolumeM3,
			&o.SpecialRequirements, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan order: %w", err)
		}
		o.Priority = model.OrderPriority(prio)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
