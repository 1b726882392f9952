package dispatch

import "github.com/fleetops/ringrail/core/model"

// Dashboard aggregates positions, statuses, targets, planned paths, station
// occupancy, the pending queue and the projected movement plan into a
// single view for management UIs.
func (s *Scheduler) Dashboard() model.Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return model.Dashboard{
			Vehicles:     map[string]model.VehicleDetail{},
			Stations:     map[int]model.StationState{},
			PendingQueue: []model.PendingRequest{},
			MovementPlan: []model.PlannedMove{},
		}
	}

	paths := s.plannedPathsLocked()
	vehicles := make(map[string]model.VehicleDetail, len(s.order))
	for _, id := range s.order {
		v := s.vehicles[id]
		target, _ := s.pendingTarget(id)
		next := 0
		if v.status == model.StatusMoving && v.currentStation != 0 {
			next = s.ring.Next(v.currentStation)
		}
		vehicles[id] = model.VehicleDetail{
			CurrentStation: v.currentStation,
			Status:         v.status,
			TargetStation:  target,
			NextStation:    next,
			Sequence:       paths[id],
		}
	}

	stations := make(map[int]model.StationState, s.ring.Size())
	for i, occ := range s.occupants {
		stations[i+1] = model.StationState{OccupiedBy: occ}
	}

	plan := s.lookAheadLocked(s.lookaheadCap)
	if plan == nil {
		plan = []model.PlannedMove{}
	}
	return model.Dashboard{
		Initialized:  true,
		Vehicles:     vehicles,
		Stations:     stations,
		PendingQueue: append([]model.PendingRequest{}, s.queue...),
		MovementPlan: plan,
	}
}
