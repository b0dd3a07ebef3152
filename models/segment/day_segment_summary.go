package segment

import (
	"encoding/json"

	"ns-advisor/models"
)

// DaySegmentSummary accumulates the records whose timestamp falls in Segment.
type DaySegmentSummary struct {
	Segment  DaySegment
	Readings []models.GlucoseReading
	Insulin  []models.InsulinTreatment
	Carbs    []models.CarbTreatment
}

// NewDaySegmentSummaries returns one empty summary per segment, in day order.
func NewDaySegmentSummaries() []DaySegmentSummary {
	segments := All()
	summaries := make([]DaySegmentSummary, len(segments))
	for i, s := range segments {
		summaries[i] = DaySegmentSummary{
			Segment:  s,
			Readings: []models.GlucoseReading{},
			Insulin:  []models.InsulinTreatment{},
			Carbs:    []models.CarbTreatment{},
		}
	}
	return summaries
}

// AverageGlucose returns the mean reading; ok is false when there are no readings.
func (s DaySegmentSummary) AverageGlucose() (avg float64, ok bool) {
	if len(s.Readings) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range s.Readings {
		total += r.Value
	}
	return float64(total) / float64(len(s.Readings)), true
}

func (s DaySegmentSummary) TotalInsulin() float64 {
	total := 0.0
	for _, t := range s.Insulin {
		total += t.UnitsOrZero()
	}
	return total
}

func (s DaySegmentSummary) TotalCarbs() float64 {
	total := 0.0
	for _, t := range s.Carbs {
		total += t.GramsOrZero()
	}
	return total
}

// MarshalJSON renders the derived statistics; an empty segment has a null average.
func (s DaySegmentSummary) MarshalJSON() ([]byte, error) {
	start, end := s.Segment.HourRange()
	out := struct {
		Segment        DaySegment                `json:"segment"`
		StartHour      int                       `json:"start_hour"`
		EndHour        int                       `json:"end_hour"`
		AverageGlucose *float64                  `json:"average_glucose"`
		TotalInsulin   float64                   `json:"total_insulin"`
		TotalCarbs     float64                   `json:"total_carbs"`
		Readings       []models.GlucoseReading   `json:"readings"`
		Insulin        []models.InsulinTreatment `json:"insulin"`
		Carbs          []models.CarbTreatment    `json:"carbs"`
	}{
		Segment:      s.Segment,
		StartHour:    start,
		EndHour:      end,
		TotalInsulin: s.TotalInsulin(),
		TotalCarbs:   s.TotalCarbs(),
		Readings:     s.Readings,
		Insulin:      s.Insulin,
		Carbs:        s.Carbs,
	}
	if avg, ok := s.AverageGlucose(); ok {
		out.AverageGlucose = &avg
	}
	return json.Marshal(out)
}
