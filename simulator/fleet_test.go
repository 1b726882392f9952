package simulator

import (
	"testing"

	"github.com/fleetops/ringrail/core/dispatch"
	"github.com/fleetops/ringrail/infra/logger"
)

func newScheduler(t *testing.T, positions map[string]int) *dispatch.Scheduler {
	t.Helper()
	cfg := dispatch.Config{}
	cfg.SetDefaults()
	sched, err := dispatch.New(cfg, logger.NopLogger{}, nil)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	if err := sched.Initialize(positions); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return sched
}

func assertConverged(t *testing.T, sched *dispatch.Scheduler, fleet *Fleet) {
	t.Helper()
	if depth := sched.QueueDepth(); depth != 0 {
		t.Fatalf("queue depth %d after drive", depth)
	}
	want, err := sched.Positions()
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	got := fleet.Positions()
	for id, st := range want {
		if got[id] != st {
			t.Errorf("scheduler has %s at %d, fleet at %d", id, st, got[id])
		}
	}
}

func TestFleetResolvesChainPush(t *testing.T) {
	positions := map[string]int{"a": 1, "b": 2, "c": 3}
	sched := newScheduler(t, positions)
	if err := sched.RequestMove("a", 3); err != nil {
		t.Fatalf("request: %v", err)
	}

	fleet := NewFleet(positions, 4, PerfectDetection{})
	if err := fleet.Drive(sched, 50); err != nil {
		t.Fatalf("drive: %v", err)
	}
	assertConverged(t, sched, fleet)
	if got := fleet.Positions()["a"]; got != 3 {
		t.Fatalf("a ended at %d, want 3", got)
	}
}

func TestUnconfidentFleetConverges(t *testing.T) {
	positions := map[string]int{"a": 1, "b": 2, "c": 3}
	sched := newScheduler(t, positions)
	if err := sched.RequestMove("c", 1); err != nil {
		t.Fatalf("request: %v", err)
	}

	// Every report is unconfident, so the scheduler must fall back to the
	// expected station. The vehicles execute commands faithfully, so the
	// fallback matches physical reality and the fleet still converges.
	fleet := NewFleet(positions, 4, NoisyDetection{UnconfidentRate: 1})
	if err := fleet.Drive(sched, 50); err != nil {
		t.Fatalf("drive: %v", err)
	}
	assertConverged(t, sched, fleet)
	if got := fleet.Positions()["c"]; got != 1 {
		t.Fatalf("c ended at %d, want 1", got)
	}
}

func TestFaultyDriveStaysPut(t *testing.T) {
	positions := map[string]int{"a": 1, "b": 2, "c": 3}
	sched := newScheduler(t, positions)
	if err := sched.RequestMove("c", 4); err != nil {
		t.Fatalf("request: %v", err)
	}

	v := NewSimulatedVehicle("c", 3, 4, FaultyDrive{ErrorRate: 1})
	moved, err := v.Step(sched)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if moved {
		t.Fatalf("errored drive must not count as a move")
	}
	if v.Station != 3 {
		t.Fatalf("vehicle moved to %d despite drive error", v.Station)
	}
	got, err := sched.Positions()
	if err != nil {
		t.Fatalf("positions: %v", err)
	}
	if got["c"] != 3 {
		t.Fatalf("scheduler moved c to %d despite drive error", got["c"])
	}
	if sched.QueueDepth() != 1 {
		t.Fatalf("request dropped after drive error")
	}

	// The next attempt succeeds and completes the request.
	v.Strategy = PerfectDetection{}
	moved, err = v.Step(sched)
	if err != nil {
		t.Fatalf("retry step: %v", err)
	}
	if !moved || v.Station != 4 {
		t.Fatalf("retry did not reach station 4: moved=%v station=%d", moved, v.Station)
	}
}

func TestStopDoesNotMove(t *testing.T) {
	positions := map[string]int{"a": 1, "b": 2, "c": 3}
	sched := newScheduler(t, positions)

	v := NewSimulatedVehicle("a", 1, 4, PerfectDetection{})
	moved, err := v.Step(sched)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if moved || v.Station != 1 {
		t.Fatalf("idle vehicle moved: %v %d", moved, v.Station)
	}
}
