// Package dispatch owns the authoritative model of the ring: station
// occupancy, vehicle state, the FIFO queue of pending move requests and the
// command counter. All mutations go through the Scheduler, one at a time.
package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/fleetops/ringrail/core/events"
	"github.com/fleetops/ringrail/core/logger"
	"github.com/fleetops/ringrail/core/model"
	"github.com/fleetops/ringrail/core/ring"
	"github.com/fleetops/ringrail/internal/eventbus"
)

type vehicleState struct {
	currentStation int // 0 before initialization
	status         model.VehicleStatus
	lastCommandID  int
}

// Scheduler coordinates single-step moves of the vehicles around the ring.
// A single mutex guards the whole model; every operation runs to completion
// without blocking, so coarse locking is sufficient.
type Scheduler struct {
	mu sync.Mutex

	ring      ring.Ring
	order     []string // configured vehicle ids in stable order
	vehicles  map[string]*vehicleState
	occupants []string // station id - 1 -> vehicle id, "" when empty
	queue     []model.PendingRequest

	nextCommandID int
	initialized   bool
	lookaheadCap  int

	log logger.Logger
	bus eventbus.EventBus
}

// New creates a Scheduler for the configured ring layout. The bus may be nil
// when no event consumers exist.
func New(cfg Config, log logger.Logger, bus eventbus.EventBus) (*Scheduler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch config: %w", err)
	}
	r, err := ring.New(cfg.Stations)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		ring:          r,
		order:         append([]string(nil), cfg.Vehicles...),
		vehicles:      make(map[string]*vehicleState, len(cfg.Vehicles)),
		occupants:     make([]string, cfg.Stations),
		nextCommandID: 1,
		lookaheadCap:  cfg.LookaheadMoves,
		log:           log,
		bus:           bus,
	}
	for _, id := range s.order {
		s.vehicles[id] = &vehicleState{status: model.StatusIdle}
	}
	return s, nil
}

// Initialize assigns every vehicle to a station and marks the model live.
// The mapping must cover exactly the configured vehicle set with distinct,
// in-range stations; on failure the model is left untouched.
func (s *Scheduler) Initialize(positions map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(positions) != len(s.order) {
		return &ValidationError{Reason: fmt.Sprintf("expected %d vehicles, got %d", len(s.order), len(positions))}
	}
	used := make(map[int]string, len(positions))
	for _, id := range s.order {
		station, ok := positions[id]
		if !ok {
			return &ValidationError{Reason: fmt.Sprintf("missing vehicle %q", id)}
		}
		if !s.ring.Contains(station) {
			return &ValidationError{Reason: fmt.Sprintf("station %d outside ring for vehicle %q", station, id)}
		}
		if other, dup := used[station]; dup {
			return &ValidationError{Reason: fmt.Sprintf("station %d assigned to both %q and %q", station, other, id)}
		}
		used[station] = id
	}

	for i := range s.occupants {
		s.occupants[i] = ""
	}
	for id, station := range positions {
		v := s.vehicles[id]
		v.currentStation = station
		v.status = model.StatusIdle
		v.lastCommandID = 0
		s.occupants[station-1] = id
	}
	s.queue = nil
	s.initialized = true

	s.log.Infof("initialized with positions %v", positions)
	s.publish(events.Initialized{Positions: copyPositions(positions), Time: time.Now()})
	return nil
}

// RequestMove registers a "go to station" call for a vehicle. A vehicle
// already at the target is a successful no-op. A vehicle with a pending
// request keeps its queue position but has the target overwritten.
func (s *Scheduler) RequestMove(vehicle string, target int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	v, ok := s.vehicles[vehicle]
	if !ok {
		return &UnknownVehicleError{Vehicle: vehicle}
	}
	if !s.ring.Contains(target) {
		return &InvalidTargetError{Station: target}
	}
	if v.currentStation == target {
		s.log.Infof("vehicle %s already at station %d", vehicle, target)
		return nil
	}
	for i := range s.queue {
		if s.queue[i].Vehicle == vehicle {
			s.log.Warnf("vehicle %s already has a pending request, retargeting to %d", vehicle, target)
			s.queue[i].Target = target
			s.publish(events.RequestQueued{Vehicle: vehicle, Target: target, QueueDepth: len(s.queue), Time: time.Now()})
			return nil
		}
	}
	s.queue = append(s.queue, model.PendingRequest{Vehicle: vehicle, Target: target})
	s.log.Infof("queued request: vehicle %s to station %d", vehicle, target)
	s.publish(events.RequestQueued{Vehicle: vehicle, Target: target, QueueDepth: len(s.queue), Time: time.Now()})
	return nil
}

// NextCommand answers a vehicle's poll. A vehicle mid-move with a pending
// request gets its outstanding command re-issued unchanged, so lost
// responses can be retried safely. Otherwise the ring-wide move selector
// runs; only the vehicle the selected move names receives a forward
// command, everyone else is told to stop.
func (s *Scheduler) NextCommand(vehicle string) (model.Command, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return model.Command{}, ErrNotInitialized
	}
	v, ok := s.vehicles[vehicle]
	if !ok {
		return model.Command{}, &UnknownVehicleError{Vehicle: vehicle}
	}

	if v.status == model.StatusMoving && v.lastCommandID != 0 && s.hasPending(vehicle) {
		return model.Command{
			ID:              v.lastCommandID,
			Action:          model.ActionForward,
			ExpectedStation: s.ring.Next(v.currentStation),
		}, nil
	}

	if mv := s.nextMove(); mv != nil && mv.vehicle == vehicle {
		id := s.nextCommandID
		s.nextCommandID++
		v.status = model.StatusMoving
		v.lastCommandID = id
		cmd := model.Command{ID: id, Action: model.ActionForward, ExpectedStation: mv.to}
		s.log.Infof("command %d: vehicle %s forward to station %d", id, vehicle, mv.to)
		s.publish(events.CommandIssued{
			CommandID:       id,
			Vehicle:         vehicle,
			Action:          model.ActionForward,
			ExpectedStation: mv.to,
			Time:            time.Now(),
		})
		return cmd, nil
	}

	return model.Command{ID: v.lastCommandID, Action: model.ActionStop}, nil
}

// ReportArrival applies a vehicle's report. On an error event the vehicle
// goes idle and keeps its position. On arrival the detected station wins
// unless the detection was not confident, in which case the model's own
// expectation is kept.
func (s *Scheduler) ReportArrival(vehicle string, rep model.ArrivalReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vehicles[vehicle]
	if !ok {
		return &UnknownVehicleError{Vehicle: vehicle}
	}

	switch rep.Event {
	case model.EventError:
		s.log.Errorf("vehicle %s reported error (command_id=%d)", vehicle, rep.CommandID)
		v.status = model.StatusIdle
		s.publish(events.ArrivalRecorded{
			CommandID: rep.CommandID,
			Vehicle:   vehicle,
			Station:   v.currentStation,
			Event:     model.EventError,
			Confident: rep.Confident,
			Mismatch:  rep.Mismatch,
			Time:      time.Now(),
		})
		return nil
	case model.EventArrived:
		resolved := rep.DetectedStation
		if !rep.Confident {
			s.log.Warnf("vehicle %s pattern detection failed, using expected station %d", vehicle, rep.ExpectedStation)
			resolved = rep.ExpectedStation
		} else if rep.Mismatch {
			s.log.Warnf("vehicle %s position mismatch: expected=%d detected=%d", vehicle, rep.ExpectedStation, rep.DetectedStation)
		}
		if !s.ring.Contains(resolved) {
			return &InvalidTargetError{Station: resolved}
		}
		if occ := s.occupants[resolved-1]; occ != "" && occ != vehicle {
			s.log.Errorf("station %d reported by %s but occupied by %s", resolved, vehicle, occ)
		}

		if v.currentStation != 0 {
			s.occupants[v.currentStation-1] = ""
		}
		s.occupants[resolved-1] = vehicle
		v.currentStation = resolved
		v.status = model.StatusIdle

		s.log.Infof("vehicle %s arrived at station %d (command_id=%d)", vehicle, resolved, rep.CommandID)
		for i := range s.queue {
			if s.queue[i].Vehicle == vehicle && s.queue[i].Target == resolved {
				s.queue = append(s.queue[:i], s.queue[i+1:]...)
				s.log.Infof("vehicle %s reached target station %d", vehicle, resolved)
				break
			}
		}
		s.publish(events.ArrivalRecorded{
			CommandID: rep.CommandID,
			Vehicle:   vehicle,
			Station:   resolved,
			Event:     model.EventArrived,
			Confident: rep.Confident,
			Mismatch:  rep.Mismatch,
			Time:      time.Now(),
		})
		return nil
	default:
		return ErrUnknownEvent
	}
}

// Reset returns the model to the uninitialized state. The configured vehicle
// and station sets are kept; positions, requests and vehicle commands are
// cleared. The command counter keeps running so ids stay globally unique.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = false
	s.queue = nil
	for _, v := range s.vehicles {
		v.currentStation = 0
		v.status = model.StatusIdle
		v.lastCommandID = 0
	}
	for i := range s.occupants {
		s.occupants[i] = ""
	}
	s.log.Infof("model reset")
	s.publish(events.ModelReset{Time: time.Now()})
}

// Snapshot returns a read-only diagnostic view of the whole model.
func (s *Scheduler) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot{
		Initialized:   s.initialized,
		Vehicles:      make(map[string]model.VehicleState, len(s.vehicles)),
		Stations:      make(map[int]model.StationState, s.ring.Size()),
		PendingQueue:  append([]model.PendingRequest(nil), s.queue...),
		NextCommandID: s.nextCommandID,
	}
	for id, v := range s.vehicles {
		snap.Vehicles[id] = model.VehicleState{
			CurrentStation: v.currentStation,
			Status:         v.status,
			LastCommandID:  v.lastCommandID,
		}
	}
	for i, occ := range s.occupants {
		snap.Stations[i+1] = model.StationState{OccupiedBy: occ}
	}
	return snap
}

// Positions returns the current station of every vehicle.
func (s *Scheduler) Positions() (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make(map[string]int, len(s.vehicles))
	for id, v := range s.vehicles {
		out[id] = v.currentStation
	}
	return out, nil
}

// QueueDepth returns the number of pending requests.
func (s *Scheduler) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Scheduler) hasPending(vehicle string) bool {
	for _, req := range s.queue {
		if req.Vehicle == vehicle {
			return true
		}
	}
	return false
}

func (s *Scheduler) pendingTarget(vehicle string) (int, bool) {
	for _, req := range s.queue {
		if req.Vehicle == vehicle {
			return req.Target, true
		}
	}
	return 0, false
}

func (s *Scheduler) publish(ev eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func copyPositions(positions map[string]int) map[string]int {
	out := make(map[string]int, len(positions))
	for k, v := range positions {
		out[k] = v
	}
	return out
}
