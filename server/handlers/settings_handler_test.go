package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ns-advisor/api/nightscout"
	"ns-advisor/dao/redis"
	"ns-advisor/db"
	services "ns-advisor/service"
)

func newSettingsHandler(t *testing.T, loopDir string) *SettingsHandler {
	t.Helper()
	dao := redis.NewRedisPreferencesDAO(db.NewMockRedisClient(context.Background()))
	service := services.NewSettingsService(dao, nightscout.NewNightscoutApiClientMock(), "", "", loopDir)
	return NewSettingsHandler(service)
}

func TestSettingsHandler_PreferencesLifecycle(t *testing.T) {
	handler := newSettingsHandler(t, "")

	rr := httptest.NewRecorder()
	handler.GetPreferences(rr, httptest.NewRequest(http.MethodGet, "/v1/preferences", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"nightscout_url": "", "has_api_secret": false, "adjustment_limit": 10}`, rr.Body.String())

	rr = httptest.NewRecorder()
	body := `{"nightscout_url": "https://ns.example.com", "api_secret": "secret"}`
	handler.PutPreferences(rr, httptest.NewRequest(http.MethodPut, "/v1/preferences", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"nightscout_url": "https://ns.example.com", "has_api_secret": true, "adjustment_limit": 10}`, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), `"secret"`)

	rr = httptest.NewRecorder()
	handler.DeletePreferences(rr, httptest.NewRequest(http.MethodDelete, "/v1/preferences", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	handler.GetPreferences(rr, httptest.NewRequest(http.MethodGet, "/v1/preferences", nil))
	assert.JSONEq(t, `{"nightscout_url": "", "has_api_secret": false, "adjustment_limit": 10}`, rr.Body.String())
}

func TestSettingsHandler_PutPreferences_Invalid(t *testing.T) {
	handler := newSettingsHandler(t, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed body", body: `{"nightscout_url": `},
		{name: "limit above maximum", body: `{"adjustment_limit": 51}`},
		{name: "negative limit", body: `{"adjustment_limit": -1}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			handler.PutPreferences(rr, httptest.NewRequest(http.MethodPut, "/v1/preferences", strings.NewReader(test.body)))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestSettingsHandler_GetLoopSettings(t *testing.T) {
	dir := t.TempDir()
	settings := `{"nightscoutURL": "https://loop.example.com", "apiSecret": "loop-secret",
		"basal": [{"startTime": "00:00", "rate": 0.8}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freeaps_settings.json"), []byte(settings), 0o644))
	handler := newSettingsHandler(t, dir)
	rr := httptest.NewRecorder()

	handler.GetLoopSettings(rr, httptest.NewRequest(http.MethodGet, "/v1/loop/settings", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"nightscout_url":"https://loop.example.com"`)
	assert.Contains(t, rr.Body.String(), `"has_api_secret":true`)
	assert.NotContains(t, rr.Body.String(), "loop-secret")
	assert.Contains(t, rr.Body.String(), `"raw_json":`)
}

func TestSettingsHandler_GetLoopSettings_NotFound(t *testing.T) {
	handler := newSettingsHandler(t, t.TempDir())
	rr := httptest.NewRecorder()

	handler.GetLoopSettings(rr, httptest.NewRequest(http.MethodGet, "/v1/loop/settings", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSettingsHandler_TouchLoopSettings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "freeaps_settings.json"), []byte(`{"url": "https://loop.example.com"}`), 0o644))
	handler := newSettingsHandler(t, dir)
	rr := httptest.NewRecorder()

	handler.TouchLoopSettings(rr, httptest.NewRequest(http.MethodPost, "/v1/loop/settings/touch", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	data, err := os.ReadFile(filepath.Join(dir, "freeaps_settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "iAPSAdvisorLastTouched")

	rr = httptest.NewRecorder()
	newSettingsHandler(t, "").TouchLoopSettings(rr, httptest.NewRequest(http.MethodPost, "/v1/loop/settings/touch", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
