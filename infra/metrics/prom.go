package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/fleetops/ringrail/core/metrics"
)

// PromSink records scheduler activity in Prometheus metrics.
type PromSink struct {
	commands *prometheus.CounterVec
	arrivals *prometheus.CounterVec
	queue    prometheus.Gauge
}

// NewPromSink registers dispatch metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ring_commands_total",
		Help: "Total number of movement commands issued",
	}, []string{"vehicle_id", "action"})
	arrivals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ring_arrivals_total",
		Help: "Total number of vehicle reports applied",
	}, []string{"vehicle_id", "event", "confident", "mismatch"})
	queue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ring_pending_requests",
		Help: "Number of pending move requests",
	})

	if err := reg.Register(commands); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commands = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(arrivals); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			arrivals = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(queue); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			queue = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{commands: commands, arrivals: arrivals, queue: queue}, nil
}

// RecordCommand counts an issued command.
func (s *PromSink) RecordCommand(ev coremetrics.CommandEvent) error {
	s.commands.WithLabelValues(ev.Vehicle, ev.Action).Inc()
	return nil
}

// RecordArrival counts an applied vehicle report.
func (s *PromSink) RecordArrival(ev coremetrics.ArrivalEvent) error {
	s.arrivals.WithLabelValues(ev.Vehicle, ev.Event,
		strconv.FormatBool(ev.Confident), strconv.FormatBool(ev.Mismatch)).Inc()
	return nil
}

// RecordQueueDepth tracks the pending request queue.
func (s *PromSink) RecordQueueDepth(depth int, _ time.Time) error {
	s.queue.Set(float64(depth))
	return nil
}
