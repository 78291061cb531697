package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/haulware/routeopt/core/metrics"
	"github.com/haulware/routeopt/infra/logger"
)

// InfluxSink writes batch results to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordBatch writes the batch result as a single measurement point.
func (s *InfluxSink) RecordBatch(res coremetrics.BatchResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimization_batch").
		AddTag("batch_id", res.BatchID).
		AddTag("matrix_fallback", strconv.FormatBool(res.MatrixFallback)).
		AddField("orders", res.Orders).
		AddField("routes_evaluated", res.RoutesEvaluated).
		AddField("routes_accepted", res.RoutesAccepted).
		AddField("routes_rejected", res.RoutesRejected).
		AddField("orders_assigned", res.OrdersAssigned).
		AddField("orders_unassigned", res.OrdersUnassigned).
		AddField("total_profit", res.TotalProfit).
		AddField("total_distance_km", res.TotalDistanceKm).
		AddField("solve_duration_ms", res.SolveDuration.Milliseconds()).
		SetTime(res.Timestamp)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
