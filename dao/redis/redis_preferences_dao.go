package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/db"
	"ns-advisor/models"
)

const PREFERENCES_KEY_V1 = "preferences_v1"

// ErrInvalidAdjustmentLimit is returned when the limit is outside [0, MAX_ADJUSTMENT_LIMIT_PERCENT].
var ErrInvalidAdjustmentLimit = errors.New("adjustment limit out of range")

// RedisPreferencesDAO persists user preferences using Redis.
type RedisPreferencesDAO struct {
	client db.RedisClient
}

// NewRedisPreferencesDAO initializes a RedisPreferencesDAO with the Redis client.
func NewRedisPreferencesDAO(client db.RedisClient) *RedisPreferencesDAO {
	return &RedisPreferencesDAO{client: client}
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() models.Preferences {
	return models.Preferences{AdjustmentLimit: config.DEFAULT_ADJUSTMENT_LIMIT_PERCENT}
}

// GetPreferences returns the stored preferences, or the defaults when none are stored.
func (dao *RedisPreferencesDAO) GetPreferences() (models.Preferences, error) {
	str, err := dao.client.Get(PREFERENCES_KEY_V1)
	if errors.Is(err, db.ErrKeyNotFound) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to get preferences from redis: %w", err)
	}

	p := DefaultPreferences()
	if err := json.Unmarshal([]byte(str), &p); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to unmarshal preferences JSON: %w", err)
	}
	return p, nil
}

// SavePreferences validates and stores p.
func (dao *RedisPreferencesDAO) SavePreferences(p models.Preferences) error {
	if err := ValidatePreferences(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := dao.client.Set(PREFERENCES_KEY_V1, string(data)); err != nil {
		return fmt.Errorf("failed to set preferences in redis: %w", err)
	}
	applog.Infof("[RedisPreferencesDAO] Saved preferences (nightscout_url=%q)", p.NightscoutURL)
	return nil
}

// DeletePreferences removes stored preferences so the defaults apply again.
func (dao *RedisPreferencesDAO) DeletePreferences() error {
	if err := dao.client.Del(PREFERENCES_KEY_V1); err != nil {
		return fmt.Errorf("failed to delete preferences key %s: %w", PREFERENCES_KEY_V1, err)
	}
	return nil
}

func ValidatePreferences(p models.Preferences) error {
	if p.AdjustmentLimit < 0 || p.AdjustmentLimit > config.MAX_ADJUSTMENT_LIMIT_PERCENT {
		return fmt.Errorf("%w: %.0f not in [0, %.0f]", ErrInvalidAdjustmentLimit, p.AdjustmentLimit, config.MAX_ADJUSTMENT_LIMIT_PERCENT)
	}
	return nil
}
