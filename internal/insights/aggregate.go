package insights

import (
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
)

// Summary mood thresholds, coarser than the classifier bands.
const (
	summaryNegativeBelow = -0.3
	summaryPositiveAbove = 0.3
)

// Bucket thresholds for the positive/neutral/negative counts.
const (
	bucketNegativeBelow = -0.2
	bucketPositiveAbove = 0.2
)

// AverageScore averages samples whose day is not before now minus days.
// It returns 0 when no sample qualifies.
func AverageScore(samples []domain.MoodSample, days int, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -days)
	avg, _ := average(samples, func(s domain.MoodSample) bool {
		return !s.Day.Before(cutoff)
	})
	return avg
}

// MoodChange is the trailing-week average minus the average of the week before it.
// It returns 0 when the earlier week has no samples.
func MoodChange(samples []domain.MoodSample, now time.Time) float64 {
	weekAgo := now.AddDate(0, 0, -7)
	twoWeeksAgo := now.AddDate(0, 0, -14)

	previous, ok := average(samples, func(s domain.MoodSample) bool {
		return !s.Day.Before(twoWeeksAgo) && s.Day.Before(weekAgo)
	})
	if !ok {
		return 0
	}
	return AverageScore(samples, 7, now) - previous
}

// DayAverage averages the samples on day's calendar day, in day's location.
// The second result reports whether any sample matched.
func DayAverage(samples []domain.MoodSample, day time.Time) (float64, bool) {
	loc := day.Location()
	day = DayOf(day, loc)
	return average(samples, func(s domain.MoodSample) bool {
		return DayOf(s.Day, loc).Equal(day)
	})
}

func average(samples []domain.MoodSample, keep func(domain.MoodSample) bool) (float64, bool) {
	var sum float64
	var n int
	for _, s := range samples {
		if keep(s) {
			sum += s.Score
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// SummaryMoodFor maps an average onto the three-way summary label.
func SummaryMoodFor(avg float64) domain.SummaryMood {
	switch {
	case avg < summaryNegativeBelow:
		return domain.MoodNegative
	case avg > summaryPositiveAbove:
		return domain.MoodPositive
	default:
		return domain.MoodNeutral
	}
}

func TrendFor(change float64) domain.Trend {
	switch {
	case change > 0:
		return domain.TrendImproving
	case change < 0:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// CountBuckets counts samples as positive above 0.2, negative below -0.2, and neutral otherwise.
func CountBuckets(samples []domain.MoodSample) domain.BucketCounts {
	var c domain.BucketCounts
	for _, s := range samples {
		switch {
		case s.Score > bucketPositiveAbove:
			c.Positive++
		case s.Score < bucketNegativeBelow:
			c.Negative++
		default:
			c.Neutral++
		}
	}
	return c
}
