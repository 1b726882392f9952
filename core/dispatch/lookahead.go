package dispatch

import "github.com/fleetops/ringrail/core/model"

// simState is a private copy of occupancy, positions and the request queue
// used by the look-ahead projection.
type simState struct {
	positions map[string]int
	occupants []string
	queue     []model.PendingRequest
}

// LookAhead projects up to maxMoves future single-step moves without
// touching live state. A non-positive maxMoves uses the configured cap.
//
// The projection resolves blocking differently from the live selector: when
// the head request's vehicle cannot advance, the vehicle sitting behind the
// ring's empty slot is moved into it. The two strategies reach the same
// targets but may order the intermediate making-space moves differently.
func (s *Scheduler) LookAhead(maxMoves int) []model.PlannedMove {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookAheadLocked(maxMoves)
}

func (s *Scheduler) lookAheadLocked(maxMoves int) []model.PlannedMove {
	if !s.initialized {
		return nil
	}
	if maxMoves <= 0 {
		maxMoves = s.lookaheadCap
	}

	sim := simState{
		positions: make(map[string]int, len(s.vehicles)),
		occupants: append([]string(nil), s.occupants...),
		queue:     append([]model.PendingRequest(nil), s.queue...),
	}
	for id, v := range s.vehicles {
		sim.positions[id] = v.currentStation
	}

	var moves []model.PlannedMove
	step := 1
	for len(moves) < maxMoves && len(sim.queue) > 0 {
		head := sim.queue[0]
		if sim.positions[head.Vehicle] == head.Target {
			sim.queue = sim.queue[1:]
			continue
		}
		mv, ok := s.simChainMove(&sim, head.Vehicle)
		if !ok {
			break
		}
		reason := model.ReasonMakingSpace
		if mv.vehicle == head.Vehicle {
			reason = model.ReasonMovingToTarget
		}
		from := sim.positions[mv.vehicle]
		moves = append(moves, model.PlannedMove{
			Step:        step,
			Vehicle:     mv.vehicle,
			FromStation: from,
			ToStation:   mv.to,
			Reason:      reason,
		})

		sim.occupants[from-1] = ""
		sim.occupants[mv.to-1] = mv.vehicle
		sim.positions[mv.vehicle] = mv.to
		if mv.vehicle == head.Vehicle && mv.to == head.Target {
			sim.queue = sim.queue[1:]
		}
		step++
	}
	return moves
}

// simChainMove finds the next projected move for the given vehicle. If its
// successor slot is free the vehicle advances. Otherwise the ring's empty
// slot is located and the vehicle occupying its predecessor is shifted into
// it, starting a chain reaction that eventually frees the path.
func (s *Scheduler) simChainMove(sim *simState, vehicle string) (move, bool) {
	cur := sim.positions[vehicle]
	next := s.ring.Next(cur)
	if sim.occupants[next-1] == "" {
		return move{vehicle: vehicle, to: next}, true
	}

	empty := 0
	for i, occ := range sim.occupants {
		if occ == "" {
			empty = i + 1
			break
		}
	}
	if empty == 0 {
		return move{}, false
	}
	prev := s.ring.Prev(empty)
	mover := sim.occupants[prev-1]
	if mover == "" {
		return move{}, false
	}
	return move{vehicle: mover, to: empty}, true
}

// PlannedPaths returns, per vehicle, the station-by-station walk from its
// current position to its pending target, ignoring blocking. Vehicles with
// no pending request get an empty path.
func (s *Scheduler) PlannedPaths() map[string][]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plannedPathsLocked()
}

func (s *Scheduler) plannedPathsLocked() map[string][]int {
	out := make(map[string][]int, len(s.order))
	for _, id := range s.order {
		out[id] = []int{}
	}
	if !s.initialized {
		return out
	}
	for _, id := range s.order {
		v := s.vehicles[id]
		target, ok := s.pendingTarget(id)
		if !ok || v.currentStation == 0 || v.currentStation == target {
			continue
		}
		out[id] = s.ring.Path(v.currentStation, target)
	}
	return out
}
