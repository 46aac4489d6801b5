package insights

import (
	"slices"
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
)

// CurrentStreak counts consecutive journaling days ending today, or ending yesterday
// when nothing has been written today yet. Days are taken in now's location.
//
// Under StreakPerEntry every entry on a streak day adds one; under StreakPerDay each day adds one.
// Entries dated after today are ignored.
func CurrentStreak(dates []time.Time, now time.Time, policy domain.StreakPolicy) int {
	loc := now.Location()
	today := DayOf(now, loc)

	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := DayOf(d, loc)
		if day.After(today) {
			continue
		}
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })

	streak := 0
	cursor := today
	var last time.Time
	for _, day := range days {
		switch {
		case day.Equal(cursor):
			streak++
			last = day
			cursor = cursor.AddDate(0, 0, -1)
		case streak > 0 && day.Equal(last):
			if policy != domain.StreakPerDay {
				streak++
			}
		case streak == 0 && day.Equal(cursor.AddDate(0, 0, -1)):
			streak++
			last = day
			cursor = day.AddDate(0, 0, -1)
		default:
			return streak
		}
	}
	return streak
}
