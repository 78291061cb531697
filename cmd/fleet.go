package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulware/routeopt/config"
	"github.com/haulware/routeopt/infra/fleetapi"
	"github.com/haulware/routeopt/infra/logger"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List available trucks and trailers",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client := fleetapi.NewClient(cfg.Fleet, logger.New("fleet-ls"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	trucks, err := client.ListAvailableTrucks(ctx)
	if err != nil {
		return err
	}
	trailers, err := client.ListAvailableTrailers(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, t := range trucks {
		fmt.Fprintf(out, "truck %s\t%s\t%s\t%.1f/%.1fh\n", t.ID, t.Name, t.Warehouse, t.CurrentHours, t.MaxHours)
	}
	for _, t := range trailers {
		fmt.Fprintf(out, "trailer %s\t%s\t%s\t%.0f/%.0fkg\n", t.ID, t.Name, t.Warehouse, t.CurrentWeightKg, t.MaxWeightKg)
	}
	return nil
}
