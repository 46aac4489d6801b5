package insights

import (
	"time"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/sentiment"
)

const monthLayout = "2006-01"

// BuildCalendar lays out the month containing month as Sunday-first weeks.
// Leading and trailing days from adjacent months fill the first and last week.
// Cells with entries carry the day's average score and its band color.
func BuildCalendar(samples []domain.MoodSample, month, now time.Time) domain.CalendarMonth {
	loc := month.Location()
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))
	today := DayOf(now, loc)

	byDay := make(map[string][]domain.MoodSample)
	for _, s := range samples {
		key := DayOf(s.Day, loc).Format(domain.DayLayout)
		byDay[key] = append(byDay[key], s)
	}

	cal := domain.CalendarMonth{Month: first.Format(monthLayout)}
	var week []domain.CalendarDay
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		cell := domain.CalendarDay{
			Date:    day,
			InMonth: day.Month() == first.Month(),
			IsToday: day.Equal(today),
		}
		daySamples := byDay[day.Format(domain.DayLayout)]
		if avg, ok := DayAverage(daySamples, day); ok {
			cell.EntryCount = len(daySamples)
			cell.AverageScore = avg
			cell.Color = sentiment.Color(avg)
		}
		week = append(week, cell)
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = nil
		}
	}
	return cal
}

// ParseMonth parses "2006-01" in loc. An empty string yields the month containing now.
func ParseMonth(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if s == "" {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation(monthLayout, s, loc)
}
