package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ns-advisor/dao/redis"
	"ns-advisor/db"
	"ns-advisor/models"
)

type credentialsRecorder struct {
	stubNightscoutAPI
	baseURL, apiSecret string
}

func (c *credentialsRecorder) SetCredentials(baseURL string, apiSecret string) {
	c.baseURL = baseURL
	c.apiSecret = apiSecret
}

func newLoopSettingsDir(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "freeaps_settings.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}
	return dir
}

func newSettingsService(t *testing.T, envURL, envSecret, loopDir string) (*SettingsService, *redis.RedisPreferencesDAO, *credentialsRecorder) {
	t.Helper()
	dao := redis.NewRedisPreferencesDAO(db.NewMockRedisClient(context.Background()))
	recorder := &credentialsRecorder{}
	return NewSettingsService(dao, recorder, envURL, envSecret, loopDir), dao, recorder
}

func TestResolveConnection_Priority(t *testing.T) {
	loopDir := newLoopSettingsDir(t, `{"nightscoutURL": "https://loop.example.com", "apiSecret": "loop-secret"}`)

	service, dao, _ := newSettingsService(t, "", "", loopDir)
	conn, err := service.ResolveConnection()
	require.NoError(t, err)
	assert.Equal(t, Connection{BaseURL: "https://loop.example.com", APISecret: "loop-secret", Source: "loop_settings"}, conn)

	service, dao, _ = newSettingsService(t, "https://env.example.com", "env-secret", loopDir)
	conn, err = service.ResolveConnection()
	require.NoError(t, err)
	assert.Equal(t, Connection{BaseURL: "https://env.example.com", APISecret: "env-secret", Source: "environment"}, conn)

	require.NoError(t, dao.SavePreferences(models.Preferences{NightscoutURL: "https://prefs.example.com", AdjustmentLimit: 10}))
	conn, err = service.ResolveConnection()
	require.NoError(t, err)
	assert.Equal(t, Connection{BaseURL: "https://prefs.example.com", Source: "preferences"}, conn)
}

func TestResolveConnection_NothingConfigured(t *testing.T) {
	service, _, _ := newSettingsService(t, "", "", "")

	conn, err := service.ResolveConnection()

	require.NoError(t, err)
	assert.Equal(t, Connection{Source: "none"}, conn)
}

func TestApplyPreferences_UpdatesClientCredentials(t *testing.T) {
	service, _, recorder := newSettingsService(t, "https://env.example.com", "", "")

	conn, err := service.ApplyPreferences(models.Preferences{
		NightscoutURL:   "https://prefs.example.com",
		APISecret:       "token",
		AdjustmentLimit: 15,
	})

	require.NoError(t, err)
	assert.Equal(t, "preferences", conn.Source)
	assert.Equal(t, "https://prefs.example.com", recorder.baseURL)
	assert.Equal(t, "token", recorder.apiSecret)

	prefs, err := service.Preferences()
	require.NoError(t, err)
	assert.Equal(t, 15.0, prefs.AdjustmentLimit)
}

func TestApplyPreferences_InvalidLimitLeavesClientUntouched(t *testing.T) {
	service, _, recorder := newSettingsService(t, "", "", "")

	_, err := service.ApplyPreferences(models.Preferences{NightscoutURL: "https://x", AdjustmentLimit: 75})

	assert.True(t, errors.Is(err, redis.ErrInvalidAdjustmentLimit))
	assert.Empty(t, recorder.baseURL)
}

func TestResetPreferences_FallsBackToEnvironment(t *testing.T) {
	service, _, recorder := newSettingsService(t, "https://env.example.com", "env-secret", "")
	_, err := service.ApplyPreferences(models.Preferences{NightscoutURL: "https://prefs.example.com", AdjustmentLimit: 10})
	require.NoError(t, err)

	conn, err := service.ResetPreferences()

	require.NoError(t, err)
	assert.Equal(t, "environment", conn.Source)
	assert.Equal(t, "https://env.example.com", recorder.baseURL)
	assert.Equal(t, "env-secret", recorder.apiSecret)
}

func TestLoopSettings_Unavailable(t *testing.T) {
	service, _, _ := newSettingsService(t, "", "", t.TempDir())

	snapshot, err := service.LoopSettings()

	assert.Nil(t, snapshot)
	assert.True(t, errors.Is(err, ErrLoopSettingsUnavailable))
}

func TestTouchLoopSettings_StampsFile(t *testing.T) {
	loopDir := newLoopSettingsDir(t, `{"nightscoutURL": "https://loop.example.com", "units": "mg/dL"}`)
	service, _, _ := newSettingsService(t, "", "", loopDir)
	service.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	snapshot, err := service.TouchLoopSettings()

	require.NoError(t, err)
	assert.Equal(t, "https://loop.example.com", snapshot.NightscoutURL)
	data, err := os.ReadFile(filepath.Join(loopDir, "freeaps_settings.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"iAPSAdvisorLastTouched": "2024-05-01T12:00:00Z"`))
	assert.Contains(t, string(data), `"units": "mg/dL"`)
}

func TestTouchLoopSettings_Unavailable(t *testing.T) {
	service, _, _ := newSettingsService(t, "", "", "")

	_, err := service.TouchLoopSettings()

	assert.True(t, errors.Is(err, ErrLoopSettingsUnavailable))
}
