package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ns-advisor/api"
	"ns-advisor/api/nightscout"
	"ns-advisor/models"
)

// failingNightscoutAPI returns err from every fetch.
type failingNightscoutAPI struct {
	err error
}

func (f *failingNightscoutAPI) FetchReadings(context.Context, string) ([]models.GlucoseReading, error) {
	return nil, f.err
}

func (f *failingNightscoutAPI) FetchInsulin(context.Context, string) ([]models.InsulinTreatment, error) {
	return nil, f.err
}

func (f *failingNightscoutAPI) FetchCarbs(context.Context, string) ([]models.CarbTreatment, error) {
	return nil, f.err
}

func (f *failingNightscoutAPI) SetCredentials(string, string) {}

func TestNightscoutHandler_ServesMockFixtures(t *testing.T) {
	t.Setenv("PROJECT_ROOT", "../..")
	handler := NewNightscoutHandler(nightscout.NewNightscoutApiClientMock())

	tests := []struct {
		name    string
		handle  http.HandlerFunc
		path    string
		records int
	}{
		{name: "entries", handle: handler.GetEntries, path: "/v1/entries?start_date=2024-05-01", records: 3},
		{name: "insulin", handle: handler.GetInsulin, path: "/v1/treatments/insulin", records: 2},
		{name: "carbs", handle: handler.GetCarbs, path: "/v1/treatments/carbs?start_date=2024-05-01", records: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			test.handle(rr, httptest.NewRequest(http.MethodGet, test.path, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body []map[string]interface{}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Len(t, body, test.records)
		})
	}
}

func TestNightscoutHandler_InvalidStartDate(t *testing.T) {
	handler := NewNightscoutHandler(&failingNightscoutAPI{})

	tests := []struct {
		name   string
		handle http.HandlerFunc
		path   string
	}{
		{name: "entries without start date", handle: handler.GetEntries, path: "/v1/entries"},
		{name: "entries with malformed date", handle: handler.GetEntries, path: "/v1/entries?start_date=05/01/2024"},
		{name: "insulin with malformed date", handle: handler.GetInsulin, path: "/v1/treatments/insulin?start_date=yesterday"},
		{name: "carbs with malformed date", handle: handler.GetCarbs, path: "/v1/treatments/carbs?start_date=2024-13-01"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			test.handle(rr, httptest.NewRequest(http.MethodGet, test.path, nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "start_date")
		})
	}
}

func TestNightscoutHandler_MapsUpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "invalid request", err: &api.InvalidRequestError{Reason: "no base url configured"}, status: http.StatusInternalServerError},
		{name: "transport", err: &api.NonProtocolResponseError{Err: errors.New("connection refused")}, status: http.StatusBadGateway},
		{name: "status", err: &api.UnsuccessfulStatusError{StatusCode: 401, Status: "401 Unauthorized"}, status: http.StatusBadGateway},
		{name: "decode", err: &api.DecodeError{Err: errors.New("missing field")}, status: http.StatusBadGateway},
		{name: "deadline", err: &api.NonProtocolResponseError{Err: context.DeadlineExceeded}, status: http.StatusGatewayTimeout},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handler := NewNightscoutHandler(&failingNightscoutAPI{err: test.err})
			rr := httptest.NewRecorder()

			handler.GetEntries(rr, httptest.NewRequest(http.MethodGet, "/v1/entries?start_date=2024-05-01", nil))

			assert.Equal(t, test.status, rr.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, test.err.Error(), body.Error)
		})
	}
}

func TestNightscoutHandler_Ping(t *testing.T) {
	rr := httptest.NewRecorder()

	NewNightscoutHandler(&failingNightscoutAPI{}).Ping(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status": "pong"}`, rr.Body.String())
}
