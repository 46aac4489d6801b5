package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayLayout is the calendar-day key format used for mood samples.
const DayLayout = "2006-01-02"

// MoodSample is the (day, score) pair derived from one entry.
// Day is midnight in the journal's location.
type MoodSample struct {
	EntryID uuid.UUID `json:"entryId"`
	Day     time.Time `json:"-"`
	Score   float64   `json:"score"`
}

// DayKey returns the sample's day as "2006-01-02".
func (s MoodSample) DayKey() string {
	return s.Day.Format(DayLayout)
}

// TimeWindow scopes aggregation to a trailing range.
type TimeWindow string

const (
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowAll   TimeWindow = "all"
)

// Days returns the trailing length of the window, or 0 for WindowAll.
func (w TimeWindow) Days() int {
	switch w {
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return 0
	}
}

// ParseTimeWindow converts a string to a TimeWindow, defaulting to week.
func ParseTimeWindow(s string) TimeWindow {
	switch s {
	case "month":
		return WindowMonth
	case "all":
		return WindowAll
	default:
		return WindowWeek
	}
}

// SampleKeying decides which samples an entry update or delete touches.
type SampleKeying string

const (
	// KeyByEntry touches only the sample derived from the edited entry.
	KeyByEntry SampleKeying = "entry"
	// KeyByDay touches every sample on the edited entry's day, siblings included.
	KeyByDay SampleKeying = "day"
)

// ParseSampleKeying converts a string to a SampleKeying, defaulting to KeyByEntry.
func ParseSampleKeying(s string) SampleKeying {
	if s == string(KeyByDay) {
		return KeyByDay
	}
	return KeyByEntry
}

// StreakPolicy decides how several entries on one day count toward a streak.
type StreakPolicy string

const (
	StreakPerEntry StreakPolicy = "entry"
	StreakPerDay   StreakPolicy = "day"
)

// ParseStreakPolicy converts a string to a StreakPolicy, defaulting to StreakPerEntry.
func ParseStreakPolicy(s string) StreakPolicy {
	if s == string(StreakPerDay) {
		return StreakPerDay
	}
	return StreakPerEntry
}

// EntryEventKind identifies an entry lifecycle transition.
type EntryEventKind int

const (
	EntryCreated EntryEventKind = iota
	EntryUpdated
	EntryDeleted
)

func (k EntryEventKind) String() string {
	switch k {
	case EntryCreated:
		return "created"
	case EntryUpdated:
		return "updated"
	case EntryDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// EntryEvent carries what the mood index needs from an entry lifecycle transition.
// Date is always the entry's original creation date.
type EntryEvent struct {
	Kind    EntryEventKind
	EntryID uuid.UUID
	Date    time.Time
	Score   float64
}
