package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SentimentLabel is the five-way classification of a sentiment score.
type SentimentLabel string

const (
	LabelVeryNegative SentimentLabel = "very negative"
	LabelNegative     SentimentLabel = "negative"
	LabelNeutral      SentimentLabel = "neutral"
	LabelPositive     SentimentLabel = "positive"
	LabelVeryPositive SentimentLabel = "very positive"
)

// SentimentAnalysis is the classifier output attached to every entry.
// Score is always within [-1, 1]; Label and Emoji are derived from Score.
type SentimentAnalysis struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
	Emoji string         `json:"emoji"`
}

// JournalEntry is a single dated journal writing.
// Date is assigned once at creation and is the aggregation key; edits never move it.
type JournalEntry struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Date      time.Time         `json:"date"`
	CreatedAt time.Time         `json:"createdAt"`
	Sentiment SentimentAnalysis `json:"sentiment"`
	Tags      []string          `json:"tags,omitempty"`
}

// EntryRepository persists journal entries.
// List returns entries ordered by Date, newest first.
type EntryRepository interface {
	Create(ctx context.Context, entry *JournalEntry) error
	Get(ctx context.Context, id uuid.UUID) (*JournalEntry, error)
	Update(ctx context.Context, entry *JournalEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]JournalEntry, error)
}
