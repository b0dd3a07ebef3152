package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ns-advisor/api"
	"ns-advisor/applog"
	"ns-advisor/config"
)

const (
	START_DATE_QUERY_ARG = "start_date"
	TIMEZONE_QUERY_ARG   = "tz"
	DATE_QUERY_ARG       = "date"
)

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		applog.Errorf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// StatusForError maps a Nightscout client error onto the status returned to callers.
// A request that could not be built is our fault; anything the upstream did wrong is a bad gateway.
func StatusForError(err error) int {
	var (
		invalidErr   *api.InvalidRequestError
		transportErr *api.NonProtocolResponseError
		statusErr    *api.UnsuccessfulStatusError
		decodeErr    *api.DecodeError
	)
	switch {
	case errors.As(err, &invalidErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr), errors.As(err, &statusErr), errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeUpstreamError(w http.ResponseWriter, op string, err error) {
	status := StatusForError(err)
	applog.Errorw("Upstream request failed", "op", op, "status", status, "error", err)
	writeError(w, status, err.Error())
}

// parseDateArg validates an optional yyyy-MM-dd query argument.
func parseDateArg(r *http.Request, name string) (string, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return "", true
	}
	if _, err := time.Parse(config.NIGHTSCOUT_DATE_FILTER_FORMAT, s); err != nil {
		return "", false
	}
	return s, true
}
