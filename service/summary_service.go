package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ns-advisor/api/nightscout"
	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/models"
	"ns-advisor/models/segment"
	"ns-advisor/util"
)

// DaySummary is the result of one aggregation call.
type DaySummary struct {
	ID        string                      `json:"summary_id"`
	StartDate string                      `json:"start_date"`
	Timezone  string                      `json:"timezone"`
	Segments  []segment.DaySegmentSummary `json:"segments"`
}

// SummaryService fetches today's records and buckets them into day segments.
type SummaryService struct {
	nightscoutAPI nightscout.NightscoutAPI
	now           func() time.Time
}

// NewSummaryService constructs a new SummaryService.
func NewSummaryService(nightscoutAPI nightscout.NightscoutAPI) *SummaryService {
	return &SummaryService{
		nightscoutAPI: nightscoutAPI,
		now:           time.Now,
	}
}

// StartOfDay returns local midnight of ref's calendar date in loc.
func StartOfDay(ref time.Time, loc *time.Location) time.Time {
	local := ref.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SummarizeToday fetches glucose, insulin and carb records for the day containing ref
// and returns exactly four summaries in day order. A zero ref means now, a nil loc
// means time.Local. The first fetch failure is returned unchanged.
func (s *SummaryService) SummarizeToday(ctx context.Context, ref time.Time, loc *time.Location) (*DaySummary, error) {
	if ref.IsZero() {
		ref = s.now()
	}
	if loc == nil {
		loc = time.Local
	}
	summaryID := uuid.NewString()
	startDate := StartOfDay(ref, loc).Format(config.NIGHTSCOUT_DATE_FILTER_FORMAT)

	applog.Infow("[SummaryService] Summarizing day", "summary_id", summaryID, "start_date", startDate, "timezone", loc.String())

	var (
		readings []models.GlucoseReading
		insulin  []models.InsulinTreatment
		carbs    []models.CarbTreatment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		readings, err = s.nightscoutAPI.FetchReadings(gctx, startDate)
		return err
	})
	g.Go(func() error {
		var err error
		insulin, err = s.nightscoutAPI.FetchInsulin(gctx, startDate)
		return err
	})
	g.Go(func() error {
		var err error
		carbs, err = s.nightscoutAPI.FetchCarbs(gctx, startDate)
		return err
	})
	if err := g.Wait(); err != nil {
		applog.Errorw("[SummaryService] Fetch failed", "summary_id", summaryID, "error", err)
		return nil, err
	}

	summaries := BucketRecords(readings, insulin, carbs, loc)
	applog.Infow("[SummaryService] Summary complete", "summary_id", summaryID,
		"readings", len(readings), "insulin", len(insulin), "carbs", len(carbs))

	return &DaySummary{
		ID:        summaryID,
		StartDate: startDate,
		Timezone:  loc.String(),
		Segments:  summaries,
	}, nil
}

// BucketRecords assigns every record with a parseable timestamp to its segment in loc.
// Records without a timestamp, or with one that cannot be parsed, are skipped.
func BucketRecords(
	readings []models.GlucoseReading,
	insulin []models.InsulinTreatment,
	carbs []models.CarbTreatment,
	loc *time.Location,
) []segment.DaySegmentSummary {
	summaries := segment.NewDaySegmentSummaries()

	for _, r := range readings {
		if seg, ok := segmentOf(r, loc); ok {
			summaries[seg].Readings = append(summaries[seg].Readings, r)
		}
	}
	for _, t := range insulin {
		if seg, ok := segmentOf(t, loc); ok {
			summaries[seg].Insulin = append(summaries[seg].Insulin, t)
		}
	}
	for _, t := range carbs {
		if seg, ok := segmentOf(t, loc); ok {
			summaries[seg].Carbs = append(summaries[seg].Carbs, t)
		}
	}
	return summaries
}

type timestamped interface {
	Timestamp() (string, bool)
}

func segmentOf(record timestamped, loc *time.Location) (segment.DaySegment, bool) {
	raw, ok := record.Timestamp()
	if !ok {
		applog.Debugw("[SummaryService] Skipping record without timestamp", "record", record)
		return 0, false
	}
	parsed, ok := util.ParseTimestamp(raw)
	if !ok {
		applog.Debugw("[SummaryService] Skipping record with unparseable timestamp", "timestamp", raw)
		return 0, false
	}
	return segment.For(parsed, loc), true
}
