package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulware/routeopt/app"
	"github.com/haulware/routeopt/config"
	"github.com/haulware/routeopt/core/model"
)

var ordersPath string

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run a single optimization batch and print the route summary",
	RunE:  runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&ordersPath, "orders", "o", "", "JSON file with orders (defaults to the configured order source)")
	rootCmd.AddCommand(optimizeCmd)
}

type orderFile struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customer_id"`
	CustomerName        string          `json:"customer_name"`
	ShipFrom            string          `json:"ship_from"`
	ShipTo              string          `json:"ship_to"`
	PickupDate          time.Time       `json:"pickup_date"`
	DeliveryDate        time.Time       `json:"delivery_date"`
	Priority            string          `json:"priority"`
	WeightKg            float64         `json:"weight_kg"`
	VolumeM3            float64         `json:"volume_m3"`
	SpecialRequirements map[string]bool `json:"special_requirements"`
	Notes               string          `json:"notes"`
}

func runOptimize(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	var orders []model.Order
	if ordersPath != "" {
		orders, err = readOrders(ordersPath)
	} else {
		orders, err = svc.Source.ListPendingOrders(ctx)
	}
	if err != nil {
		return err
	}

	result, err := svc.Optimize(ctx, orders)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Summary())
	return nil
}

func readOrders(path string) ([]model.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders: %w", err)
	}
	var dtos []orderFile
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("parse orders: %w", err)
	}
	orders := make([]model.Order, len(dtos))
	for i, d := range dtos {
		orders[i] = model.Order{
			ID:                  d.ID,
			CustomerID:          d.CustomerID,
			CustomerName:        d.CustomerName,
			ShipFrom:            d.ShipFrom,
			ShipTo:              d.ShipTo,
			PickupDate:          d.PickupDate,
			DeliveryDate:        d.DeliveryDate,
			Status:              model.StatusPending,
			Priority:            model.OrderPriority(d.Priority),
			WeightKg:            d.WeightKg,
			VolumeM3:            d.VolumeM3,
			SpecialRequirements: d.SpecialRequirements,
			Notes:               d.Notes,
		}
		if err := orders[i].Validate(); err != nil {
			return nil, err
		}
	}
	return orders, nil
}
