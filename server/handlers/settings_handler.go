package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ns-advisor/applog"
	"ns-advisor/dao/redis"
	"ns-advisor/models"
	services "ns-advisor/service"
)

// SettingsManager reads and updates the Nightscout connection settings.
type SettingsManager interface {
	Preferences() (models.Preferences, error)
	ApplyPreferences(p models.Preferences) (services.Connection, error)
	ResetPreferences() (services.Connection, error)
	LoopSettings() (*models.LoopSettingsSnapshot, error)
	TouchLoopSettings() (*models.LoopSettingsSnapshot, error)
}

// PreferencesView is the preferences as shown to clients; the secret itself is never echoed.
type PreferencesView struct {
	NightscoutURL   string  `json:"nightscout_url"`
	HasAPISecret    bool    `json:"has_api_secret"`
	AdjustmentLimit float64 `json:"adjustment_limit"`
}

type SettingsHandler struct {
	settings SettingsManager
}

func NewSettingsHandler(settings SettingsManager) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

func viewOf(p models.Preferences) PreferencesView {
	return PreferencesView{
		NightscoutURL:   p.NightscoutURL,
		HasAPISecret:    p.APISecret != "",
		AdjustmentLimit: p.AdjustmentLimit,
	}
}

// GetPreferences handles GET /v1/preferences
func (h *SettingsHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.settings.Preferences()
	if err != nil {
		applog.Errorf("Error loading preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(prefs))
}

// PutPreferences handles PUT /v1/preferences
func (h *SettingsHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	current, err := h.settings.Preferences()
	if err != nil {
		applog.Errorf("Error loading preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Fields missing from the body keep their stored values.
	prefs := current
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid preferences body")
		return
	}

	if _, err := h.settings.ApplyPreferences(prefs); err != nil {
		if errors.Is(err, redis.ErrInvalidAdjustmentLimit) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		applog.Errorf("Error saving preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, viewOf(prefs))
}

// DeletePreferences handles DELETE /v1/preferences
func (h *SettingsHandler) DeletePreferences(w http.ResponseWriter, r *http.Request) {
	if _, err := h.settings.ResetPreferences(); err != nil {
		applog.Errorf("Error resetting preferences: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLoopSettings handles GET /v1/loop/settings
func (h *SettingsHandler) GetLoopSettings(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.settings.LoopSettings()
	if errors.Is(err, services.ErrLoopSettingsUnavailable) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		applog.Errorf("Error reading Loop settings: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// TouchLoopSettings handles POST /v1/loop/settings/touch
func (h *SettingsHandler) TouchLoopSettings(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.settings.TouchLoopSettings()
	if errors.Is(err, services.ErrLoopSettingsUnavailable) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		applog.Errorf("Error stamping Loop settings: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
