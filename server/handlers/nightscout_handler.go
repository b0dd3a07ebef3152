package handlers

import (
	"net/http"

	"ns-advisor/api/nightscout"
	"ns-advisor/applog"
)

// NightscoutHandler exposes the raw Nightscout record fetches.
type NightscoutHandler struct {
	nightscoutAPI nightscout.NightscoutAPI
}

func NewNightscoutHandler(nightscoutAPI nightscout.NightscoutAPI) *NightscoutHandler {
	return &NightscoutHandler{nightscoutAPI: nightscoutAPI}
}

// GetEntries handles GET /v1/entries?start_date=yyyy-MM-dd
func (h *NightscoutHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	startDate, ok := parseDateArg(r, START_DATE_QUERY_ARG)
	if !ok || startDate == "" {
		writeError(w, http.StatusBadRequest, "Invalid argument "+START_DATE_QUERY_ARG)
		return
	}

	readings, err := h.nightscoutAPI.FetchReadings(r.Context(), startDate)
	if err != nil {
		writeUpstreamError(w, "entries", err)
		return
	}
	writeJSON(w, http.StatusOK, readings)
}

// GetInsulin handles GET /v1/treatments/insulin[?start_date=yyyy-MM-dd]
func (h *NightscoutHandler) GetInsulin(w http.ResponseWriter, r *http.Request) {
	startDate, ok := parseDateArg(r, START_DATE_QUERY_ARG)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid argument "+START_DATE_QUERY_ARG)
		return
	}

	treatments, err := h.nightscoutAPI.FetchInsulin(r.Context(), startDate)
	if err != nil {
		writeUpstreamError(w, "insulin", err)
		return
	}
	writeJSON(w, http.StatusOK, treatments)
}

// GetCarbs handles GET /v1/treatments/carbs[?start_date=yyyy-MM-dd]
func (h *NightscoutHandler) GetCarbs(w http.ResponseWriter, r *http.Request) {
	startDate, ok := parseDateArg(r, START_DATE_QUERY_ARG)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid argument "+START_DATE_QUERY_ARG)
		return
	}

	treatments, err := h.nightscoutAPI.FetchCarbs(r.Context(), startDate)
	if err != nil {
		writeUpstreamError(w, "carbs", err)
		return
	}
	writeJSON(w, http.StatusOK, treatments)
}

// Ping handles GET /ping
func (h *NightscoutHandler) Ping(w http.ResponseWriter, r *http.Request) {
	applog.Debugf("Pinging server")
	writeJSON(w, http.StatusOK, map[string]string{"status": "pong"})
}
