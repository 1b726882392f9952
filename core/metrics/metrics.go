package metrics

import "time"

// CommandEvent represents a command handed to a vehicle, to be recorded by
// a sink.
type CommandEvent struct {
	CommandID       int
	Vehicle         string
	Action          string
	ExpectedStation int
	Time            time.Time
}

// ArrivalEvent captures an applied vehicle report.
type ArrivalEvent struct {
	Vehicle   string
	Station   int
	Event     string
	Confident bool
	Mismatch  bool
	Time      time.Time
}

// MetricsSink records dispatch activity for observability purposes.
type MetricsSink interface {
	RecordCommand(ev CommandEvent) error
	RecordArrival(ev ArrivalEvent) error
}

// QueueDepthRecorder is implemented by sinks that track the pending queue.
type QueueDepthRecorder interface {
	RecordQueueDepth(depth int, t time.Time) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordCommand(CommandEvent) error      { return nil }
func (NopSink) RecordArrival(ArrivalEvent) error      { return nil }
func (NopSink) RecordQueueDepth(int, time.Time) error { return nil }
