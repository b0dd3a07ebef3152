package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"ns-advisor/models/segment"
)

// PlotDaySegmentSummaries renders a bar chart of per-segment statistics as HTML into w.
func PlotDaySegmentSummaries(w io.Writer, title string, summaries []segment.DaySegmentSummary) error {
	xAxis := make([]string, 0, len(summaries))
	glucose := make([]opts.BarData, 0, len(summaries))
	insulin := make([]opts.BarData, 0, len(summaries))
	carbs := make([]opts.BarData, 0, len(summaries))

	for _, s := range summaries {
		start, end := s.Segment.HourRange()
		xAxis = append(xAxis, fmt.Sprintf("%s (%02d-%02d)", s.Segment, start, end))

		// "-" renders as an empty bar rather than a zero average.
		avg := interface{}("-")
		if v, ok := s.AverageGlucose(); ok {
			avg = v
		}
		glucose = append(glucose, opts.BarData{Value: avg})
		insulin = append(insulin, opts.BarData{Value: s.TotalInsulin()})
		carbs = append(carbs, opts.BarData{Value: s.TotalCarbs()})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "Average glucose (mg/dL), insulin (U) and carbs (g) per day segment",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(xAxis).
		AddSeries("Average glucose", glucose).
		AddSeries("Insulin", insulin).
		AddSeries("Carbs", carbs)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
