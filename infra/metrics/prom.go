package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/haulware/routeopt/core/metrics"
)

// PromSink records optimization batches in Prometheus metrics.
type PromSink struct {
	batches    *prometheus.CounterVec
	routes     *prometheus.CounterVec
	orders     *prometheus.CounterVec
	profit     prometheus.Gauge
	solveDur   prometheus.Histogram
	fallback   prometheus.Counter
	lastOrders prometheus.Gauge
}

// NewPromSink registers batch metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optimization_batches_total",
			Help: "Total number of optimization batches",
		}, []string{"matrix_fallback"}),
		routes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optimization_routes_total",
			Help: "Candidate routes by economic verdict",
		}, []string{"verdict"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optimization_orders_total",
			Help: "Orders by assignment outcome",
		}, []string{"outcome"}),
		profit: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "optimization_last_batch_profit_dollars",
			Help: "Total profit of accepted routes in the last batch",
		}),
		solveDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "optimization_batch_duration_seconds",
			Help:    "End-to-end optimization batch duration",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		fallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "optimization_matrix_fallback_total",
			Help: "Batches that degraded to the approximate distance table",
		}),
		lastOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "optimization_last_batch_orders",
			Help: "Orders processed by the last batch",
		}),
	}
	collectors := []prometheus.Collector{
		s.batches, s.routes, s.orders, s.profit, s.solveDur, s.fallback, s.lastOrders,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordBatch updates all collectors from the batch result.
func (s *PromSink) RecordBatch(res coremetrics.BatchResult) error {
	s.batches.WithLabelValues(strconv.FormatBool(res.MatrixFallback)).Inc()
	s.routes.WithLabelValues("accepted").Add(float64(res.RoutesAccepted))
	s.routes.WithLabelValues("rejected").Add(float64(res.RoutesRejected))
	s.orders.WithLabelValues("assigned").Add(float64(res.OrdersAssigned))
	s.orders.WithLabelValues("unassigned").Add(float64(res.OrdersUnassigned))
	s.profit.Set(res.TotalProfit)
	s.solveDur.Observe(res.SolveDuration.Seconds())
	s.lastOrders.Set(float64(res.Orders))
	if res.MatrixFallback {
		s.fallback.Inc()
	}
	return nil
}
