// Package insights turns classified journal entries into mood statistics.
//
// MoodIndex keeps the mood-sample sequence in step with entry lifecycle events (Apply) and can be
// rebuilt from the entry collection at any time (Rebuild). The remaining functions are pure reads
// over a sample slice and a reference instant: AverageScore and MoodChange for windowed averages,
// CurrentStreak for journaling continuity, BuildSeries for chart data, BuildCalendar for month grids,
// and BuildSummary for the combined statistics block.
//
// Every function returns a zero value instead of an error for empty input.
package insights
