package services

import (
	"errors"
	"fmt"
	"time"

	"ns-advisor/api/nightscout"
	"ns-advisor/applog"
	"ns-advisor/dao/redis"
	"ns-advisor/models"
	"ns-advisor/util"
)

// ErrLoopSettingsUnavailable is returned when no Loop settings file can be read.
var ErrLoopSettingsUnavailable = errors.New("loop settings unavailable")

// Connection is where and how to reach the Nightscout site.
type Connection struct {
	BaseURL   string
	APISecret string
	Source    string
}

// SettingsService resolves and updates the Nightscout connection.
type SettingsService struct {
	preferencesDao  *redis.RedisPreferencesDAO
	nightscoutAPI   nightscout.NightscoutAPI
	envURL          string
	envAPISecret    string
	loopSettingsDir string
	now             func() time.Time
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(
	preferencesDao *redis.RedisPreferencesDAO,
	nightscoutAPI nightscout.NightscoutAPI,
	envURL, envAPISecret, loopSettingsDir string,
) *SettingsService {
	return &SettingsService{
		preferencesDao:  preferencesDao,
		nightscoutAPI:   nightscoutAPI,
		envURL:          envURL,
		envAPISecret:    envAPISecret,
		loopSettingsDir: loopSettingsDir,
		now:             time.Now,
	}
}

// ResolveConnection picks the connection from, in order: stored preferences,
// the environment, the Loop settings file. The secret comes from the same source
// as the URL.
func (s *SettingsService) ResolveConnection() (Connection, error) {
	prefs, err := s.preferencesDao.GetPreferences()
	if err != nil {
		return Connection{}, err
	}
	if prefs.NightscoutURL != "" {
		return Connection{BaseURL: prefs.NightscoutURL, APISecret: prefs.APISecret, Source: "preferences"}, nil
	}
	if s.envURL != "" {
		return Connection{BaseURL: s.envURL, APISecret: s.envAPISecret, Source: "environment"}, nil
	}

	snapshot, err := s.LoopSettings()
	if err != nil {
		applog.Warnf("[SettingsService] No Nightscout connection configured: %v", err)
		return Connection{Source: "none"}, nil
	}
	return Connection{BaseURL: snapshot.NightscoutURL, APISecret: snapshot.APISecret, Source: "loop_settings"}, nil
}

// Refresh resolves the connection and pushes it into the Nightscout client.
func (s *SettingsService) Refresh() (Connection, error) {
	conn, err := s.ResolveConnection()
	if err != nil {
		return Connection{}, err
	}
	s.nightscoutAPI.SetCredentials(conn.BaseURL, conn.APISecret)
	applog.Infof("[SettingsService] Nightscout connection from %s: %q", conn.Source, conn.BaseURL)
	return conn, nil
}

// Preferences returns the stored preferences.
func (s *SettingsService) Preferences() (models.Preferences, error) {
	return s.preferencesDao.GetPreferences()
}

// ApplyPreferences stores p and re-resolves the live connection.
func (s *SettingsService) ApplyPreferences(p models.Preferences) (Connection, error) {
	if err := s.preferencesDao.SavePreferences(p); err != nil {
		return Connection{}, err
	}
	return s.Refresh()
}

// ResetPreferences drops stored preferences and re-resolves the live connection.
func (s *SettingsService) ResetPreferences() (Connection, error) {
	if err := s.preferencesDao.DeletePreferences(); err != nil {
		return Connection{}, err
	}
	return s.Refresh()
}

// LoopSettings reads the snapshot from the configured Loop settings directory.
func (s *SettingsService) LoopSettings() (*models.LoopSettingsSnapshot, error) {
	path, err := util.LocateLoopSettingsFile(s.loopSettingsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoopSettingsUnavailable, err)
	}
	snapshot, err := util.ReadLoopSettingsFromJSON(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoopSettingsUnavailable, err)
	}
	return snapshot, nil
}

// TouchLoopSettings stamps the located settings file with the current time and
// returns the refreshed snapshot.
func (s *SettingsService) TouchLoopSettings() (*models.LoopSettingsSnapshot, error) {
	path, err := util.LocateLoopSettingsFile(s.loopSettingsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoopSettingsUnavailable, err)
	}
	if err := util.WriteAdvisorSignature(path, s.now()); err != nil {
		return nil, err
	}
	applog.Infof("[SettingsService] Stamped %s", path)
	return s.LoopSettings()
}
