package insights

import "time"

// HumanDate renders t relative to now for entry lists:
// "Today", "Yesterday", a weekday name within the current Sunday-first week,
// "January 2" within the current month, and "January 2, 2006" otherwise.
func HumanDate(t, now time.Time) string {
	loc := now.Location()
	day := DayOf(t, loc)
	today := DayOf(now, loc)

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	case weekStart(day).Equal(weekStart(today)):
		return day.Weekday().String()
	case day.Year() == today.Year() && day.Month() == today.Month():
		return day.Format("January 2")
	default:
		return day.Format("January 2, 2006")
	}
}

func weekStart(day time.Time) time.Time {
	return day.AddDate(0, 0, -int(day.Weekday()))
}
