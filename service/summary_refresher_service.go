package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/dao/redis"
)

// SummaryRefresherService periodically recomputes today's summary and caches it.
type SummaryRefresherService struct {
	summaryService *SummaryService
	summaryDao     *redis.RedisSummaryDAO
	loc            *time.Location
}

// NewSummaryRefresherService constructs a new refresher with dependencies.
func NewSummaryRefresherService(
	summaryService *SummaryService,
	summaryDao *redis.RedisSummaryDAO,
	loc *time.Location,
) *SummaryRefresherService {
	if loc == nil {
		loc = time.Local
	}
	return &SummaryRefresherService{
		summaryService: summaryService,
		summaryDao:     summaryDao,
		loc:            loc,
	}
}

// StartPeriodicJob launches the background loop at the given interval. It stops when ctx is done.
func (sr *SummaryRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go sr.startPeriodicJob(ctx, interval)
}

func (sr *SummaryRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = config.SUMMARY_REFRESHER_SCHEDULE_MINUTES * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			applog.Infof("[SummaryRefresherService] Periodic job stopped.")
			return
		case <-ticker.C:
			applog.Debugf("[SummaryRefresherService] Running periodic summary refresher job.")
			if _, err := sr.RefreshTodaySummary(ctx); err != nil {
				applog.Warnf("[SummaryRefresherService] RefreshTodaySummary returned error: %v", err)
			}
		}
	}
}

// RefreshTodaySummary summarizes today and caches the result under its start date.
// A failed summary leaves the previous cache entry in place.
func (sr *SummaryRefresherService) RefreshTodaySummary(ctx context.Context) (*DaySummary, error) {
	summary, err := sr.summaryService.SummarizeToday(ctx, time.Time{}, sr.loc)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal day summary: %w", err)
	}
	if err := sr.summaryDao.SetDaySummary(summary.StartDate, data); err != nil {
		return nil, err
	}
	applog.Infof("[SummaryRefresherService] Cached summary %s for %s", summary.ID, summary.StartDate)
	return summary, nil
}

// CachedSummary returns the cached summary document for startDate.
func (sr *SummaryRefresherService) CachedSummary(startDate string) (json.RawMessage, error) {
	return sr.summaryDao.GetDaySummary(startDate)
}

// DropCachedSummary removes the cached summary for startDate.
func (sr *SummaryRefresherService) DropCachedSummary(startDate string) error {
	return sr.summaryDao.DeleteDaySummary(startDate)
}
