package scenarios

import (
	"testing"

	"github.com/fleetops/ringrail/core/dispatch"
	"github.com/fleetops/ringrail/core/model"
	"github.com/fleetops/ringrail/infra/logger"
	"github.com/fleetops/ringrail/internal/eventbus"
)

// RunScenario drives a scheduler through the scripted calls, executing every
// issued command with a confident arrival, and checks the end state.
func RunScenario(t *testing.T, sc *Scenario) {
	cfg := dispatch.Config{
		Stations: sc.Ring.Stations,
		Vehicles: sc.Ring.Vehicles,
	}
	cfg.SetDefaults()

	bus := eventbus.New()
	defer bus.Close()
	sched, err := dispatch.New(cfg, logger.NopLogger{}, bus)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	if err := sched.Initialize(sc.Positions); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for _, call := range sc.Calls {
		if err := sched.RequestMove(call.Vehicle, call.Station); err != nil {
			t.Fatalf("call %s -> %d: %v", call.Vehicle, call.Station, err)
		}
	}

	moves := 0
	limit := sc.Expected.MaxMoves
	if limit == 0 {
		limit = 10 * cfg.Stations * len(cfg.Vehicles)
	}
	for sched.QueueDepth() > 0 {
		if !executeOne(t, sched, cfg.Vehicles) {
			break
		}
		moves++
		if moves > limit {
			t.Fatalf("scenario %s exceeded %d moves", sc.Name, limit)
		}
	}

	if sc.Expected.Blocked {
		if sched.QueueDepth() == 0 {
			t.Errorf("scenario %s expected to stay blocked", sc.Name)
		}
		return
	}
	if sched.QueueDepth() != 0 {
		t.Fatalf("scenario %s ended with pending calls", sc.Name)
	}
	positions, err := sched.Positions()
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	for id, want := range sc.Expected.Positions {
		if positions[id] != want {
			t.Errorf("scenario %s: %s at %d, want %d", sc.Name, id, positions[id], want)
		}
	}
}

// executeOne polls every vehicle and completes the first forward command.
func executeOne(t *testing.T, sched *dispatch.Scheduler, vehicles []string) bool {
	for _, id := range vehicles {
		c, err := sched.NextCommand(id)
		if err != nil {
			t.Fatalf("command for %s: %v", id, err)
		}
		if c.Action != model.ActionForward {
			continue
		}
		rep := model.ArrivalReport{
			CommandID:       c.ID,
			Event:           model.EventArrived,
			ExpectedStation: c.ExpectedStation,
			DetectedStation: c.ExpectedStation,
			Confident:       true,
		}
		if err := sched.ReportArrival(id, rep); err != nil {
			t.Fatalf("report for %s: %v", id, err)
		}
		return true
	}
	return false
}
