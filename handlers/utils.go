package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes data with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Handlers: failed to encode response: %v", err)
	}
}

// writeError maps service errors to HTTP statuses. Unrecognized errors become
// a 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, models.ErrNotRegistered):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrAlreadyRegistered):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, models.ErrContestNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrWindowClosed):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, models.ErrNoActivePick):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, models.ErrAlreadyResolved):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, models.ErrProviderUnavailable):
		status, message = http.StatusBadGateway, err.Error()
	default:
		logging.Errorf("Handlers: unexpected error: %v", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}

// writeBadRequest reports a malformed or incomplete request body.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message})
}
