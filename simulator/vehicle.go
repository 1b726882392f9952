// Package simulator provides in-process vehicle agents that poll the
// scheduler and report arrivals, with configurable detection behaviour.
package simulator

import (
	"fmt"

	"github.com/fleetops/ringrail/core/model"
)

// Dispatcher is the scheduler surface a simulated vehicle drives against.
type Dispatcher interface {
	NextCommand(vehicle string) (model.Command, error)
	ReportArrival(vehicle string, rep model.ArrivalReport) error
}

// SimulatedVehicle executes commands on a virtual ring and reports back
// through its detection strategy.
type SimulatedVehicle struct {
	ID       string
	Station  int
	Stations int
	Strategy DetectionStrategy
}

// NewSimulatedVehicle creates a vehicle standing at station on a ring of the
// given size.
func NewSimulatedVehicle(id string, station, stations int, strat DetectionStrategy) *SimulatedVehicle {
	if strat == nil {
		strat = PerfectDetection{}
	}
	return &SimulatedVehicle{ID: id, Station: station, Stations: stations, Strategy: strat}
}

// Step polls once and, if a move was commanded, executes it and reports the
// outcome. It returns true when the vehicle moved.
func (v *SimulatedVehicle) Step(d Dispatcher) (bool, error) {
	cmd, err := d.NextCommand(v.ID)
	if err != nil {
		return false, fmt.Errorf("poll %s: %w", v.ID, err)
	}
	if cmd.Action == model.ActionStop {
		return false, nil
	}

	reached := v.Station
	switch cmd.Action {
	case model.ActionForward:
		reached = (v.Station % v.Stations) + 1
	case model.ActionBackward:
		reached = ((v.Station - 2 + v.Stations) % v.Stations) + 1
	}

	rep := v.Strategy.Report(cmd, reached)
	if rep.Event == model.EventArrived {
		// An error report means the drive aborted in place.
		v.Station = reached
	}
	if err := d.ReportArrival(v.ID, rep); err != nil {
		return false, fmt.Errorf("report %s: %w", v.ID, err)
	}
	return rep.Event == model.EventArrived, nil
}
