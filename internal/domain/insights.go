package domain

import (
	"context"
	"time"
)

// SummaryMood is the coarse three-way label used by weekly and monthly summaries.
type SummaryMood string

const (
	MoodNegative SummaryMood = "Negative"
	MoodNeutral  SummaryMood = "Neutral"
	MoodPositive SummaryMood = "Positive"
)

// Trend describes the direction of the week-over-week mood change.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendDeclining Trend = "Declining"
	TrendStable    Trend = "Stable"
)

// BucketCounts counts samples per coarse sentiment bucket.
type BucketCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Summary is the display-ready statistics block for the insights view.
type Summary struct {
	WeeklyAverage  float64      `json:"weeklyAverage"`
	WeeklyMood     SummaryMood  `json:"weeklyMood"`
	MonthlyAverage float64      `json:"monthlyAverage"`
	MonthlyMood    SummaryMood  `json:"monthlyMood"`
	MoodChange     float64      `json:"moodChange"`
	ChangePercent  int          `json:"changePercent"`
	Trend          Trend        `json:"trend"`
	Streak         int          `json:"streak"`
	TotalEntries   int          `json:"totalEntries"`
	Buckets        BucketCounts `json:"buckets"`
}

// Series is a chart-ready, positionally aligned series.
// Colors and Moods run parallel to Values.
type Series struct {
	Window TimeWindow `json:"window"`
	Labels []string   `json:"labels"`
	Values []float64  `json:"values"`
	Colors []string   `json:"colors"`
	Moods  []string   `json:"moods"`
}

// CalendarDay is one cell of a month grid.
type CalendarDay struct {
	Date         time.Time `json:"date"`
	InMonth      bool      `json:"inMonth"`
	IsToday      bool      `json:"isToday"`
	EntryCount   int       `json:"entryCount"`
	AverageScore float64   `json:"averageScore"`
	Color        string    `json:"color,omitempty"`
}

// CalendarMonth is a Sunday-first grid covering a whole month.
type CalendarMonth struct {
	Month string          `json:"month"`
	Weeks [][]CalendarDay `json:"weeks"`
}

// InsightsCache memoizes summaries keyed by calendar day.
// Implementations compute on miss and must be invalidated on every entry change.
type InsightsCache interface {
	GetSummary(ctx context.Context, dayKey string, compute func(ctx context.Context) (Summary, error)) (Summary, error)
	Invalidate(ctx context.Context) error
}

// InsightsPublisher pushes fresh summaries to live clients.
type InsightsPublisher interface {
	PublishInsightsUpdated(ctx context.Context, summary Summary) error
}

// RolloverGate lets exactly one instance announce a new calendar day.
type RolloverGate interface {
	TryAcquire(ctx context.Context, dayKey string) (bool, error)
}
