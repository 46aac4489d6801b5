package insights

import (
	"math"
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
)

// BuildSummary computes the insights statistics block.
// entryDates feeds the streak and the entry total; samples feed everything else.
func BuildSummary(samples []domain.MoodSample, entryDates []time.Time, now time.Time, policy domain.StreakPolicy) domain.Summary {
	weekly := AverageScore(samples, 7, now)
	monthly := AverageScore(samples, 30, now)
	change := MoodChange(samples, now)

	return domain.Summary{
		WeeklyAverage:  weekly,
		WeeklyMood:     SummaryMoodFor(weekly),
		MonthlyAverage: monthly,
		MonthlyMood:    SummaryMoodFor(monthly),
		MoodChange:     change,
		ChangePercent:  int(math.Round(change * 100)),
		Trend:          TrendFor(change),
		Streak:         CurrentStreak(entryDates, now, policy),
		TotalEntries:   len(entryDates),
		Buckets:        CountBuckets(samples),
	}
}
