package simulator

import (
	"math/rand"
	"time"

	"github.com/fleetops/ringrail/core/model"
)

var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// DetectionStrategy turns an executed command into the report the vehicle
// sends back. actual is the station the vehicle physically reached.
type DetectionStrategy interface {
	Report(cmd model.Command, actual int) model.ArrivalReport
}

// PerfectDetection always detects the reached station with confidence.
type PerfectDetection struct{}

// Report implements DetectionStrategy.
func (PerfectDetection) Report(cmd model.Command, actual int) model.ArrivalReport {
	return model.ArrivalReport{
		CommandID:       cmd.ID,
		Event:           model.EventArrived,
		ExpectedStation: cmd.ExpectedStation,
		DetectedStation: actual,
		Confident:       true,
		Mismatch:        actual != cmd.ExpectedStation,
	}
}

// NoisyDetection loses confidence in its station pattern with the configured
// probability. Unconfident reports carry a garbage detected station, which
// the scheduler must resolve to the expected one.
type NoisyDetection struct {
	UnconfidentRate float64
}

// Report implements DetectionStrategy.
func (n NoisyDetection) Report(cmd model.Command, actual int) model.ArrivalReport {
	rep := PerfectDetection{}.Report(cmd, actual)
	if n.UnconfidentRate > 0 && rng.Float64() < n.UnconfidentRate {
		rep.Confident = false
		rep.DetectedStation = 0
		rep.Mismatch = true
	}
	return rep
}

// FaultyDrive aborts moves with the configured probability, reporting an
// error event instead of an arrival.
type FaultyDrive struct {
	ErrorRate float64
	Inner     DetectionStrategy
}

// Report implements DetectionStrategy.
func (f FaultyDrive) Report(cmd model.Command, actual int) model.ArrivalReport {
	if f.ErrorRate > 0 && rng.Float64() < f.ErrorRate {
		return model.ArrivalReport{CommandID: cmd.ID, Event: model.EventError}
	}
	inner := f.Inner
	if inner == nil {
		inner = PerfectDetection{}
	}
	return inner.Report(cmd, actual)
}
