package app

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/insights"
	"github.com/pscheid92/moodpulse/internal/sentiment"
)

const (
	TodayEntryTitle = "Today's Reflection"

	maxTitleLength   = 200
	maxContentLength = 50_000
	maxTags          = 20
	maxTagLength     = 40
)

// EntryInput is the user-editable part of an entry.
type EntryInput struct {
	Title   string
	Content string
	Tags    []string
	// Date backdates a new entry. Ignored on update.
	Date *time.Time
}

type Options struct {
	Location *time.Location
	Keying   domain.SampleKeying
	Policy   domain.StreakPolicy
}

// Journal is the application layer for entries and insights.
// It owns the mood index and serializes every change to it.
type Journal struct {
	mu        sync.Mutex
	entries   domain.EntryRepository
	index     *insights.MoodIndex
	cache     domain.InsightsCache
	publisher domain.InsightsPublisher
	metrics   *metrics.JournalMetrics
	clock     clockwork.Clock
	loc       *time.Location
	policy    domain.StreakPolicy
}

// NewJournal wires the journal. publisher may be nil.
func NewJournal(entries domain.EntryRepository, cache domain.InsightsCache, publisher domain.InsightsPublisher, m *metrics.JournalMetrics, clock clockwork.Clock, opts Options) *Journal {
	index := insights.NewMoodIndex(opts.Location, opts.Keying)
	return &Journal{
		entries:   entries,
		index:     index,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		clock:     clock,
		loc:       index.Location(),
		policy:    opts.Policy,
	}
}

// Start loads every stored entry into the mood index.
func (j *Journal) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.rebuildLocked(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Mood index rebuilt", "samples", j.index.Len())
	return nil
}

// Reload rebuilds the mood index from the repository. It is used when another
// instance changed entries; cached insights are dropped by the caller.
func (j *Journal) Reload(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.rebuildLocked(ctx)
}

func (j *Journal) rebuildLocked(ctx context.Context) error {
	entries, err := j.entries.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	j.index.Rebuild(entries)
	j.metrics.IndexRebuilds.Inc()
	j.metrics.MoodSamples.Set(float64(j.index.Len()))
	return nil
}

func (j *Journal) Create(ctx context.Context, in EntryInput) (*domain.JournalEntry, error) {
	entry, err := j.create(ctx, in)
	j.metrics.ObserveOperation("create", err)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Entry created", "entry_id", entry.ID, "score", entry.Sentiment.Score)
	j.afterChange(ctx)
	return entry, nil
}

func (j *Journal) create(ctx context.Context, in EntryInput) (*domain.JournalEntry, error) {
	entry, err := j.newEntry(in)
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.insertLocked(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (j *Journal) newEntry(in EntryInput) (*domain.JournalEntry, error) {
	title, tags, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	now := j.clock.Now().In(j.loc)
	date := now
	if in.Date != nil {
		date = in.Date.In(j.loc)
	}

	return &domain.JournalEntry{
		ID:        uuid.New(),
		Title:     title,
		Content:   in.Content,
		Date:      date,
		CreatedAt: now,
		Sentiment: j.classify(in.Content),
		Tags:      tags,
	}, nil
}

func (j *Journal) insertLocked(ctx context.Context, entry *domain.JournalEntry) error {
	if err := j.entries.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}
	j.applyLocked(domain.EntryEvent{Kind: domain.EntryCreated, EntryID: entry.ID, Date: entry.Date, Score: entry.Sentiment.Score})
	return nil
}

// Update replaces title, content and tags and reclassifies. The entry keeps its original date.
func (j *Journal) Update(ctx context.Context, id uuid.UUID, in EntryInput) (*domain.JournalEntry, error) {
	entry, err := j.update(ctx, id, in)
	j.metrics.ObserveOperation("update", err)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Entry updated", "entry_id", entry.ID, "score", entry.Sentiment.Score)
	j.afterChange(ctx)
	return entry, nil
}

func (j *Journal) update(ctx context.Context, id uuid.UUID, in EntryInput) (*domain.JournalEntry, error) {
	title, tags, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	entry, err := j.entries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}

	entry.Title = title
	entry.Content = in.Content
	entry.Tags = tags
	entry.Sentiment = j.classify(in.Content)

	if err := j.entries.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}
	j.applyLocked(domain.EntryEvent{Kind: domain.EntryUpdated, EntryID: entry.ID, Date: entry.Date, Score: entry.Sentiment.Score})
	return entry, nil
}

func (j *Journal) Delete(ctx context.Context, id uuid.UUID) error {
	err := j.delete(ctx, id)
	j.metrics.ObserveOperation("delete", err)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Entry deleted", "entry_id", id)
	j.afterChange(ctx)
	return nil
}

func (j *Journal) delete(ctx context.Context, id uuid.UUID) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, err := j.entries.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load entry: %w", err)
	}
	if err := j.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	j.applyLocked(domain.EntryEvent{Kind: domain.EntryDeleted, EntryID: entry.ID, Date: entry.Date})
	return nil
}

func (j *Journal) Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	entry, err := j.entries.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// List returns every entry, newest first.
func (j *Journal) List(ctx context.Context) ([]domain.JournalEntry, error) {
	entries, err := j.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

// Search matches query case-insensitively against title and content. An empty query lists everything.
func (j *Journal) Search(ctx context.Context, query string) ([]domain.JournalEntry, error) {
	entries, err := j.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries, nil
	}

	return slices.DeleteFunc(entries, func(e domain.JournalEntry) bool {
		return !strings.Contains(strings.ToLower(e.Title), query) && !strings.Contains(strings.ToLower(e.Content), query)
	}), nil
}

// EnsureTodayEntry returns today's newest entry, creating an empty placeholder when there is none.
func (j *Journal) EnsureTodayEntry(ctx context.Context) (*domain.JournalEntry, bool, error) {
	entry, created, err := j.ensureToday(ctx)
	if err != nil {
		if created {
			j.metrics.ObserveOperation("create", err)
		}
		return nil, false, err
	}
	if !created {
		return entry, false, nil
	}

	j.metrics.ObserveOperation("create", nil)
	slog.InfoContext(ctx, "Entry created", "entry_id", entry.ID, "score", entry.Sentiment.Score)
	j.afterChange(ctx)
	return entry, true, nil
}

// ensureToday looks up and creates under one lock so concurrent callers share a single placeholder.
// created reports whether a create was attempted.
func (j *Journal) ensureToday(ctx context.Context) (*domain.JournalEntry, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.entries.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list entries: %w", err)
	}

	today := insights.DayOf(j.clock.Now(), j.loc)
	for i := range entries {
		if insights.DayOf(entries[i].Date, j.loc).Equal(today) {
			return &entries[i], false, nil
		}
	}

	entry, err := j.newEntry(EntryInput{Title: TodayEntryTitle})
	if err != nil {
		return nil, true, err
	}
	if err := j.insertLocked(ctx, entry); err != nil {
		return nil, true, err
	}
	return entry, true, nil
}

// Classify scores text without storing anything.
func (j *Journal) Classify(text string) domain.SentimentAnalysis {
	return sentiment.Classify(text)
}

// Today returns the current calendar day in the journal's location as "2006-01-02".
func (j *Journal) Today() string {
	return j.clock.Now().In(j.loc).Format(domain.DayLayout)
}

// Summary returns today's insights block, served from cache when possible.
func (j *Journal) Summary(ctx context.Context) (domain.Summary, error) {
	now := j.clock.Now().In(j.loc)
	dayKey := now.Format(domain.DayLayout)

	summary, err := j.cache.GetSummary(ctx, dayKey, func(ctx context.Context) (domain.Summary, error) {
		return j.computeSummary(ctx, now)
	})
	if err != nil {
		return domain.Summary{}, fmt.Errorf("failed to get summary: %w", err)
	}
	return summary, nil
}

func (j *Journal) computeSummary(ctx context.Context, now time.Time) (domain.Summary, error) {
	entries, err := j.entries.List(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("failed to load entries: %w", err)
	}

	dates := make([]time.Time, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}

	return insights.BuildSummary(j.samples(), dates, now, j.policy), nil
}

// Series returns chart data for window ending today.
func (j *Journal) Series(window domain.TimeWindow) domain.Series {
	return insights.BuildSeries(j.samples(), window, j.clock.Now().In(j.loc))
}

// Calendar returns the month grid for month ("2006-01"); empty means the current month.
func (j *Journal) Calendar(month string) (domain.CalendarMonth, error) {
	now := j.clock.Now().In(j.loc)
	start, err := insights.ParseMonth(month, now, j.loc)
	if err != nil {
		return domain.CalendarMonth{}, fmt.Errorf("%w: %q", domain.ErrInvalidMonth, month)
	}
	return insights.BuildCalendar(j.samples(), start, now), nil
}

// HumanDate labels t relative to today.
func (j *Journal) HumanDate(t time.Time) string {
	return insights.HumanDate(t.In(j.loc), j.clock.Now().In(j.loc))
}

func (j *Journal) samples() []domain.MoodSample {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.index.Samples()
}

func (j *Journal) applyLocked(ev domain.EntryEvent) {
	j.index.Apply(ev)
	j.metrics.MoodSamples.Set(float64(j.index.Len()))
}

func (j *Journal) classify(text string) domain.SentimentAnalysis {
	result := sentiment.Classify(text)
	j.metrics.ObserveClassification(result.Score, string(result.Label))
	return result
}

// afterChange drops cached insights and pushes a fresh summary.
// Failures are logged; the entry change itself already succeeded.
func (j *Journal) afterChange(ctx context.Context) {
	if err := j.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate insights cache", "error", err)
	}
	if err := j.PublishSummary(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to publish insights update", "error", err)
	}
}

// PublishSummary pushes today's summary to live clients. It is a no-op without a publisher.
func (j *Journal) PublishSummary(ctx context.Context) error {
	if j.publisher == nil {
		return nil
	}

	summary, err := j.Summary(ctx)
	if err != nil {
		return err
	}
	if err := j.publisher.PublishInsightsUpdated(ctx, summary); err != nil {
		return fmt.Errorf("failed to publish summary: %w", err)
	}
	return nil
}

func normalizeInput(in EntryInput) (string, []string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" && strings.TrimSpace(in.Content) == "" {
		return "", nil, fmt.Errorf("%w: title or content is required", domain.ErrInvalidEntry)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", nil, fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidEntry, maxTitleLength)
	}
	if utf8.RuneCountInString(in.Content) > maxContentLength {
		return "", nil, fmt.Errorf("%w: content exceeds %d characters", domain.ErrInvalidEntry, maxContentLength)
	}

	var tags []string
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(tags, t) {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLength {
			return "", nil, fmt.Errorf("%w: tag %q exceeds %d characters", domain.ErrInvalidEntry, t, maxTagLength)
		}
		tags = append(tags, t)
	}
	if len(tags) > maxTags {
		return "", nil, fmt.Errorf("%w: at most %d tags allowed", domain.ErrInvalidEntry, maxTags)
	}

	return title, tags, nil
}
