package metrics

import (
	"errors"
	"time"

	coremetrics "github.com/fleetops/ringrail/core/metrics"
)

// MultiSink fans events out to several sinks. Errors are collected so one
// failing sink does not hide the others.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordCommand(ev coremetrics.CommandEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordCommand(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordArrival(ev coremetrics.ArrivalEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordArrival(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordQueueDepth(depth int, t time.Time) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.QueueDepthRecorder); ok {
			if err := r.RecordQueueDepth(depth, t); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
