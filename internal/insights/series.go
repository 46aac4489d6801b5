package insights

import (
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/sentiment"
)

const (
	chartLabelLayout = "Jan 2"
	monthLabelStride = 3
)

// BuildSeries produces chart data for window relative to now.
//
// Week and month label the trailing 7 or 30 calendar days oldest first; month leaves every label
// blank except each third slot from the start. Their values are the samples inside the window in
// sequence order. All labels each sample with its day key and keeps every sample.
func BuildSeries(samples []domain.MoodSample, window domain.TimeWindow, now time.Time) domain.Series {
	series := domain.Series{Window: window}

	var kept []domain.MoodSample
	switch window {
	case domain.WindowWeek, domain.WindowMonth:
		days := window.Days()
		series.Labels = dayLabels(now, days, window == domain.WindowMonth)
		cutoff := now.AddDate(0, 0, -days)
		for _, s := range samples {
			if !s.Day.Before(cutoff) {
				kept = append(kept, s)
			}
		}
	default:
		series.Window = domain.WindowAll
		series.Labels = make([]string, 0, len(samples))
		for _, s := range samples {
			series.Labels = append(series.Labels, s.DayKey())
		}
		kept = samples
	}

	series.Values = make([]float64, 0, len(kept))
	series.Colors = make([]string, 0, len(kept))
	series.Moods = make([]string, 0, len(kept))
	for _, s := range kept {
		band := sentiment.BandFor(s.Score)
		series.Values = append(series.Values, s.Score)
		series.Colors = append(series.Colors, band.Color)
		series.Moods = append(series.Moods, band.Title)
	}
	return series
}

func dayLabels(now time.Time, days int, sparse bool) []string {
	today := DayOf(now, now.Location())
	labels := make([]string, days)
	for pos := range days {
		if sparse && pos%monthLabelStride != 0 {
			continue
		}
		labels[pos] = today.AddDate(0, 0, pos-days+1).Format(chartLabelLayout)
	}
	return labels
}
