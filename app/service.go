// Package app wires the configuration into a running dispatch service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fleetops/ringrail/api/vehicles"
	"github.com/fleetops/ringrail/config"
	"github.com/fleetops/ringrail/core/dispatch"
	coremetrics "github.com/fleetops/ringrail/core/metrics"
	"github.com/fleetops/ringrail/infra/logger"
	"github.com/fleetops/ringrail/infra/metrics"
	"github.com/fleetops/ringrail/infra/telemetry"
	"github.com/fleetops/ringrail/internal/eventbus"
)

// Service orchestrates the scheduler, API server and observability sinks.
type Service struct {
	Scheduler *dispatch.Scheduler
	cfg       *config.Config
	bus       *eventbus.Bus
	sink      coremetrics.MetricsSink
	mqtt      telemetry.Client
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	bus := eventbus.New()

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
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	sched, err := dispatch.New(cfg.Ring, logger.New("dispatch"), bus)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}

	svc := &Service{Scheduler: sched, cfg: cfg, bus: bus, sink: sink, log: logg}
	if cfg.Telemetry.Enabled {
		client, err := telemetry.NewPahoClient(cfg.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqtt = client
	}
	return svc, nil
}

// Run starts the HTTP API and background consumers, blocking until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.mqtt != nil {
		telemetry.StartStatePublisher(ctx, s.bus, s.mqtt, s.cfg.Telemetry, s.Scheduler, logger.New("telemetry"))
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	api := vehicles.NewServer(s.Scheduler, logger.New("api"))
	srv := &http.Server{
		Addr:              s.cfg.Server.Address,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.mqtt != nil {
		s.mqtt.Close()
	}
	s.bus.Close()
	return nil
}
