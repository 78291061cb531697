// Package app wires the configuration into a runnable optimization service.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/haulware/routeopt/config"
	"github.com/haulware/routeopt/core/assign"
	"github.com/haulware/routeopt/core/cache"
	"github.com/haulware/routeopt/core/economics"
	"github.com/haulware/routeopt/core/engine"
	"github.com/haulware/routeopt/core/events"
	"github.com/haulware/routeopt/core/geomatrix"
	coremetrics "github.com/haulware/routeopt/core/metrics"
	"github.com/haulware/routeopt/core/model"
	"github.com/haulware/routeopt/core/runlog"
	"github.com/haulware/routeopt/core/solver"
	"github.com/haulware/routeopt/core/storage"
	infracache "github.com/haulware/routeopt/infra/cache"
	"github.com/haulware/routeopt/infra/fleetapi"
	"github.com/haulware/routeopt/infra/logger"
	"github.com/haulware/routeopt/infra/maps"
	"github.com/haulware/routeopt/infra/metrics"
	"github.com/haulware/routeopt/infra/rates"
	"github.com/haulware/routeopt/infra/store"
	"github.com/haulware/routeopt/infra/weather"
	"github.com/haulware/routeopt/internal/eventbus"
)

// Service orchestrates the optimization engine and its collaborators.
type Service struct {
	Engine      *engine.Engine
	Source      storage.OrderSource
	bus         *eventbus.Bus
	log         logger.Logger
	promEnabled bool
	promPort    string
	scheduler   config.SchedulerConfig
	closers     []func()
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	svc := &Service{
		bus:         eventbus.New(),
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
		scheduler:   cfg.Scheduler,
	}

	var dcache cache.DistanceCache
	if cfg.Cache.Addr != "" {
		rc := infracache.NewRedisCache(cfg.Cache, logg)
		svc.closers = append(svc.closers, func() {
			if err := rc.Close(); err != nil {
				logg.Errorf("cache close: %v", err)
			}
		})
		dcache = rc
	} else {
		dcache = infracache.NewMemoryCache()
	}

	builder, err := geomatrix.NewBuilder(
		maps.NewClient(cfg.Maps, logg),
		weather.NewClient(cfg.Weather, logg),
		rates.NewTable(cfg.Rates),
		dcache,
		cfg.Matrix,
		logg,
	)
	if err != nil {
		return nil, fmt.Errorf("matrix builder: %w", err)
	}
	sv, err := solver.New(cfg.Solver, logg)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	evaluator, err := economics.New(cfg.Economics, logg)
	if err != nil {
		return nil, fmt.Errorf("evaluator: %w", err)
	}

	var st storage.AssignmentStore
	if cfg.Store.DSN != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		svc.closers = append(svc.closers, pg.Close)
		svc.Source = pg
		st = pg
	} else {
		mem := store.NewMemoryStore()
		svc.Source = mem
		st = mem
		logg.Warnf("no database configured, assignments are kept in memory")
	}
	materializer, err := assign.New(st, logg)
	if err != nil {
		return nil, fmt.Errorf("materializer: %w", err)
	}

	var runs runlog.Store
	if cfg.RunLog.Enabled {
		js, err := runlog.NewJSONLStore(cfg.RunLog.Path)
		if err != nil {
			return nil, fmt.Errorf("run log: %w", err)
		}
		runs = js
	}

	if cfg.Fleet.BaseURL == "" {
		return nil, fmt.Errorf("fleet.base_url is required")
	}
	registry := fleetapi.NewClient(cfg.Fleet, logg)

	eng, err := engine.New(registry, builder, sv, evaluator, materializer, sink, svc.bus, runs, logg)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	svc.Engine = eng
	return svc, nil
}

// Run starts the service loop and blocks until the context is cancelled.
// Batches fire on the scheduler interval; the first one fires immediately.
func (s *Service) Run(ctx context.Context) error {
	go s.logEvents(ctx)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if !s.scheduler.Enabled {
		s.log.Infof("scheduler disabled, waiting for shutdown")
		<-ctx.Done()
		return nil
	}

	interval := time.Duration(s.scheduler.IntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.runBatch(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

func (s *Service) runBatch(ctx context.Context) {
	orders, err := s.Source.ListPendingOrders(ctx)
	if err != nil {
		s.log.Errorf("list pending orders: %v", err)
		return
	}
	if len(orders) == 0 {
		s.log.Debugf("no pending orders")
		return
	}
	if _, err := s.Engine.Optimize(ctx, orders); err != nil {
		s.log.Errorf("optimize: %v", err)
	}
}

// Optimize runs one batch over the given orders, bypassing the order source.
func (s *Service) Optimize(ctx context.Context, orders []model.Order) (model.Result, error) {
	return s.Engine.Optimize(ctx, orders)
}

func (s *Service) logEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case events.MatrixFallback:
				s.log.Warnf("batch %s: mapping service unavailable, using approximate distances", e.BatchID)
			case events.RouteRejected:
				s.log.Debugf("batch %s: route for truck %s rejected: %s", e.BatchID, e.TruckID, e.Reason)
			default:
				s.log.Debugw("event", map[string]interface{}{"event": fmt.Sprintf("%T", ev)})
			}
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	for _, c := range s.closers {
		c()
	}
	return nil
}
