package vehicles

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fleetops/ringrail/core/dispatch"
)

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps scheduler errors to HTTP status codes. Unknown vehicles
// are 404, every other domain error is a client mistake.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var unknown *dispatch.UnknownVehicleError
	var validation *dispatch.ValidationError
	var target *dispatch.InvalidTargetError
	switch {
	case errors.As(err, &unknown):
		status = http.StatusNotFound
	case errors.As(err, &validation),
		errors.As(err, &target),
		errors.Is(err, dispatch.ErrNotInitialized),
		errors.Is(err, dispatch.ErrUnknownEvent):
		status = http.StatusBadRequest
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}
