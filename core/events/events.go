// Package events defines the notifications the scheduler publishes on the
// internal event bus. Consumers (metrics collector, telemetry publisher)
// subscribe to these without coupling to the scheduler itself.
package events

import (
	"time"

	"github.com/fleetops/ringrail/core/model"
)

// Initialized is published after vehicle positions have been assigned.
type Initialized struct {
	Positions map[string]int
	Time      time.Time
}

// RequestQueued is published when a new move request enters the queue or an
// existing one is retargeted.
type RequestQueued struct {
	Vehicle    string
	Target     int
	QueueDepth int
	Time       time.Time
}

// CommandIssued is published when a new forward command is minted.
type CommandIssued struct {
	CommandID       int
	Vehicle         string
	Action          model.Action
	ExpectedStation int
	Time            time.Time
}

// ArrivalRecorded is published after a vehicle report has been applied.
type ArrivalRecorded struct {
	CommandID int
	Vehicle   string
	Station   int
	Event     model.ReportEvent
	Confident bool
	Mismatch  bool
	Time      time.Time
}

// ModelReset is published when the model returns to the uninitialized state.
type ModelReset struct {
	Time time.Time
}
