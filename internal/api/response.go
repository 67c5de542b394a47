package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yegors/flightplanner/internal/planner"
	"github.com/yegors/flightplanner/internal/route"
	"github.com/yegors/flightplanner/internal/storage/sqlite"
	"github.com/yegors/flightplanner/pkg/logger"
)

// WriteJSON writes data as a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var parseErr *route.ParseError
	switch {
	case errors.Is(err, planner.ErrRouteNotFound),
		errors.Is(err, sqlite.ErrRouteNotFound),
		errors.Is(err, route.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, route.ErrDragInProgress),
		errors.Is(err, route.ErrNotDragging),
		errors.Is(err, route.ErrAlphabetExhausted):
		return http.StatusConflict
	case errors.Is(err, route.ErrUnknownLegType):
		return http.StatusUnprocessableEntity
	case errors.Is(err, planner.ErrUnknownAircraft),
		errors.Is(err, route.ErrInvalidField),
		errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes it as JSON. Unexpected errors
// are logged and their detail hidden from the client.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Error: err.Error()}

	var parseErr *route.ParseError
	if errors.As(err, &parseErr) {
		resp.Line = parseErr.Line
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
		resp.Error = "internal error"
	}

	WriteJSON(w, status, resp)
}
