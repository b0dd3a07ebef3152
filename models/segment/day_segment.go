package segment

import (
	"encoding/json"
	"time"
)

// DaySegment is one of four fixed local-time-of-day windows.
type DaySegment int

const (
	EarlyMorning DaySegment = iota
	LateMorning
	Afternoon
	Evening
)

type hourRange struct {
	start, end int // [start, end)
}

var segmentRanges = [...]hourRange{
	EarlyMorning: {0, 6},
	LateMorning:  {6, 12},
	Afternoon:    {12, 18},
	Evening:      {18, 24},
}

var segmentNames = [...]string{
	EarlyMorning: "early_morning",
	LateMorning:  "late_morning",
	Afternoon:    "afternoon",
	Evening:      "evening",
}

// All returns the segments in day order.
func All() []DaySegment {
	return []DaySegment{EarlyMorning, LateMorning, Afternoon, Evening}
}

// HourRange returns the segment's half-open [start, end) hour range.
func (s DaySegment) HourRange() (int, int) {
	r := segmentRanges[s]
	return r.start, r.end
}

func (s DaySegment) String() string {
	if s < EarlyMorning || s > Evening {
		return "unknown"
	}
	return segmentNames[s]
}

func (s DaySegment) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ForHour maps an hour of day to its segment. Hours outside 0-23 fall back to Evening.
func ForHour(hour int) DaySegment {
	for _, s := range All() {
		r := segmentRanges[s]
		if hour >= r.start && hour < r.end {
			return s
		}
	}
	return Evening
}

// For returns the segment containing t's local hour in loc (time.Local when nil).
func For(t time.Time, loc *time.Location) DaySegment {
	if loc == nil {
		loc = time.Local
	}
	return ForHour(t.In(loc).Hour())
}
