package model

// Action is a single-step instruction dispatched to a vehicle.
type Action string

const (
	ActionForward  Action = "forward"
	ActionBackward Action = "backward"
	ActionStop     Action = "stop"
)

// VehicleStatus describes what a vehicle is currently doing.
type VehicleStatus string

const (
	StatusIdle    VehicleStatus = "idle"
	StatusMoving  VehicleStatus = "moving"
	StatusWaiting VehicleStatus = "waiting"
)

// ReportEvent is the outcome a vehicle reports after executing a command.
type ReportEvent string

const (
	EventArrived ReportEvent = "arrived"
	EventError   ReportEvent = "error"
)

// Command is the instruction returned to a polling vehicle. ExpectedStation
// is only set for forward and backward moves.
type Command struct {
	ID              int    `json:"command_id"`
	Action          Action `json:"action"`
	ExpectedStation int    `json:"expected_station,omitempty"`
}

// ArrivalReport is posted by a vehicle after it finishes (or aborts) a move.
// DetectedStation comes from the vehicle's own pattern detection and is only
// trusted when Confident is set.
type ArrivalReport struct {
	CommandID       int         `json:"command_id"`
	Event           ReportEvent `json:"event"`
	ExpectedStation int         `json:"expected_station"`
	DetectedStation int         `json:"detected_station"`
	Confident       bool        `json:"pattern_confident"`
	Mismatch        bool        `json:"mismatch"`
}

// PendingRequest is an outstanding "go to station X" call for a vehicle.
type PendingRequest struct {
	Vehicle string `json:"vehicle"`
	Target  int    `json:"target_station"`
}

// VehicleState is the scheduler's view of a single vehicle. CurrentStation
// is zero before initialization.
type VehicleState struct {
	CurrentStation int           `json:"current_station,omitempty"`
	Status         VehicleStatus `json:"status"`
	LastCommandID  int           `json:"current_command_id,omitempty"`
}

// StationState is the scheduler's view of a single station slot.
type StationState struct {
	OccupiedBy string `json:"occupied_by,omitempty"`
}

// MoveReason classifies a projected move in the look-ahead plan.
type MoveReason string

const (
	// ReasonMovingToTarget marks a move that advances the requesting vehicle.
	ReasonMovingToTarget MoveReason = "moving_to_target"
	// ReasonMakingSpace marks a move that relocates a blocking vehicle.
	ReasonMakingSpace MoveReason = "making_space"
)

// PlannedMove is one projected single-step move in a look-ahead plan.
type PlannedMove struct {
	Step        int        `json:"step"`
	Vehicle     string     `json:"vehicle"`
	FromStation int        `json:"from_station"`
	ToStation   int        `json:"to_station"`
	Reason      MoveReason `json:"reason"`
}

// Snapshot is a read-only diagnostic view of the whole model.
type Snapshot struct {
	Initialized   bool                    `json:"initialized"`
	Vehicles      map[string]VehicleState `json:"vehicles"`
	Stations      map[int]StationState    `json:"stations"`
	PendingQueue  []PendingRequest        `json:"pending_calls"`
	NextCommandID int                     `json:"next_command_id"`
}

// VehicleDetail is the per-vehicle dashboard entry, combining live state
// with the planned path to the vehicle's target.
type VehicleDetail struct {
	CurrentStation int           `json:"current_station,omitempty"`
	Status         VehicleStatus `json:"status"`
	TargetStation  int           `json:"target_station,omitempty"`
	NextStation    int           `json:"next_station,omitempty"`
	Sequence       []int         `json:"sequence"`
}

// Dashboard aggregates everything a management UI needs in one view.
type Dashboard struct {
	Initialized  bool                     `json:"initialized"`
	Vehicles     map[string]VehicleDetail `json:"vehicles"`
	Stations     map[int]StationState     `json:"stations"`
	PendingQueue []PendingRequest         `json:"pending_calls"`
	MovementPlan []PlannedMove            `json:"movement_plan"`
}
