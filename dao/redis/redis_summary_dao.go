package redis

import (
	"encoding/json"
	"errors"
	"fmt"

	"ns-advisor/applog"
	"ns-advisor/db"
)

// DAY_SUMMARY_KEY_FORMAT caches the latest summary per start date (yyyy-MM-dd).
const DAY_SUMMARY_KEY_FORMAT = "day_summary_v1:%s"

// ErrSummaryNotCached is returned when no summary is cached for a date.
var ErrSummaryNotCached = errors.New("no cached summary")

// RedisSummaryDAO caches serialized day summaries using Redis.
type RedisSummaryDAO struct {
	client db.RedisClient
}

// NewRedisSummaryDAO initializes a RedisSummaryDAO with the Redis client.
func NewRedisSummaryDAO(client db.RedisClient) *RedisSummaryDAO {
	return &RedisSummaryDAO{client: client}
}

// SetDaySummary caches the JSON document for startDate, replacing any previous one.
func (dao *RedisSummaryDAO) SetDaySummary(startDate string, summary json.RawMessage) error {
	if !json.Valid(summary) {
		return fmt.Errorf("summary for %s is not valid JSON", startDate)
	}
	key := fmt.Sprintf(DAY_SUMMARY_KEY_FORMAT, startDate)
	if err := dao.client.Set(key, string(summary)); err != nil {
		return fmt.Errorf("failed to set day summary in redis: %w", err)
	}
	applog.Debugf("[RedisSummaryDAO] Cached day summary for %s", startDate)
	return nil
}

// GetDaySummary returns the cached JSON document for startDate.
func (dao *RedisSummaryDAO) GetDaySummary(startDate string) (json.RawMessage, error) {
	key := fmt.Sprintf(DAY_SUMMARY_KEY_FORMAT, startDate)
	str, err := dao.client.Get(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w for %s", ErrSummaryNotCached, startDate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day summary from redis: %w", err)
	}
	return json.RawMessage(str), nil
}

// DeleteDaySummary drops the cached summary for startDate.
func (dao *RedisSummaryDAO) DeleteDaySummary(startDate string) error {
	key := fmt.Sprintf(DAY_SUMMARY_KEY_FORMAT, startDate)
	if err := dao.client.Del(key); err != nil {
		return fmt.Errorf("failed to delete day summary key %s: %w", key, err)
	}
	applog.Debugf("[RedisSummaryDAO] Deleted day summary cache for %s", startDate)
	return nil
}
