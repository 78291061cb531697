// Package metrics defines the sink contract for optimization telemetry.
// Concrete sinks (Prometheus, InfluxDB, multi) live under infra/metrics.
package metrics

import "time"

// Config defines metrics exporter settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}

// BatchResult captures the telemetry of one optimization batch.
type BatchResult struct {
	BatchID          string
	Orders           int
	RoutesEvaluated  int
	RoutesAccepted   int
	RoutesRejected   int
	OrdersAssigned   int
	OrdersUnassigned int
	TotalProfit      float64
	TotalDistanceKm  float64
	MatrixFallback   bool
	SolveDuration    time.Duration
	Timestamp        time.Time
}

// MetricsSink records batch results in a backend.
type MetricsSink interface {
	RecordBatch(BatchResult) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordBatch(BatchResult) error { return nil }
