package simulator

import "fmt"

// Fleet drives a set of simulated vehicles against one scheduler.
type Fleet struct {
	Vehicles []*SimulatedVehicle
}

// NewFleet builds a fleet from initial positions on a ring of the given size.
// All vehicles share the same detection strategy.
func NewFleet(positions map[string]int, stations int, strat DetectionStrategy) *Fleet {
	f := &Fleet{}
	for id, st := range positions {
		f.Vehicles = append(f.Vehicles, NewSimulatedVehicle(id, st, stations, strat))
	}
	return f
}

// Positions reports where each simulated vehicle physically stands.
func (f *Fleet) Positions() map[string]int {
	out := make(map[string]int, len(f.Vehicles))
	for _, v := range f.Vehicles {
		out[v.ID] = v.Station
	}
	return out
}

// Round polls every vehicle once and returns how many of them moved.
func (f *Fleet) Round(d Dispatcher) (int, error) {
	moved := 0
	for _, v := range f.Vehicles {
		ok, err := v.Step(d)
		if err != nil {
			return moved, err
		}
		if ok {
			moved++
		}
	}
	return moved, nil
}

// Drive runs rounds until a full round produces no movement, or maxRounds is
// exhausted. Vehicles with flaky drives may need several rounds per move.
func (f *Fleet) Drive(d Dispatcher, maxRounds int) error {
	idle := 0
	for round := 0; round < maxRounds; round++ {
		moved, err := f.Round(d)
		if err != nil {
			return err
		}
		if moved == 0 {
			idle++
			// Two idle rounds in a row means nothing is left to do.
			if idle >= 2 {
				return nil
			}
			continue
		}
		idle = 0
	}
	return fmt.Errorf("fleet still moving after %d rounds", maxRounds)
}
