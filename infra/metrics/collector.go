package metrics

import (
	"context"

	"github.com/fleetops/ringrail/core/events"
	coremetrics "github.com/fleetops/ringrail/core/metrics"
	"github.com/fleetops/ringrail/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// scheduler events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.CommandIssued:
					_ = sink.RecordCommand(coremetrics.CommandEvent{
						CommandID:       e.CommandID,
						Vehicle:         e.Vehicle,
						Action:          string(e.Action),
						ExpectedStation: e.ExpectedStation,
						Time:            e.Time,
					})
				case events.ArrivalRecorded:
					_ = sink.RecordArrival(coremetrics.ArrivalEvent{
						Vehicle:   e.Vehicle,
						Station:   e.Station,
						Event:     string(e.Event),
						Confident: e.Confident,
						Mismatch:  e.Mismatch,
						Time:      e.Time,
					})
				case events.RequestQueued:
					if r, ok := sink.(coremetrics.QueueDepthRecorder); ok {
						_ = r.RecordQueueDepth(e.QueueDepth, e.Time)
					}
				}
			}
		}
	}()
}
