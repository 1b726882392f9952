package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when an operation requires vehicle positions
// that have not been set yet.
var ErrNotInitialized = errors.New("system not initialized")

// ErrUnknownEvent is returned for a report event the scheduler does not know.
var ErrUnknownEvent = errors.New("unknown report event")

// ValidationError reports invalid initialization data. The model is left
// untouched when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid positions: %s", e.Reason)
}

// UnknownVehicleError reports a vehicle id outside the configured set.
type UnknownVehicleError struct {
	Vehicle string
}

func (e *UnknownVehicleError) Error() string {
	return fmt.Sprintf("unknown vehicle %q", e.Vehicle)
}

// InvalidTargetError reports a station id outside the ring.
type InvalidTargetError struct {
	Station int
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("station %d outside ring", e.Station)
}
