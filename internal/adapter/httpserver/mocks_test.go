package httpserver

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/config"
)

type mockJournal struct {
	createFn      func(ctx context.Context, in app.EntryInput) (*domain.JournalEntry, error)
	updateFn      func(ctx context.Context, id uuid.UUID, in app.EntryInput) (*domain.JournalEntry, error)
	deleteFn      func(ctx context.Context, id uuid.UUID) error
	getFn         func(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)
	searchFn      func(ctx context.Context, query string) ([]domain.JournalEntry, error)
	ensureTodayFn func(ctx context.Context) (*domain.JournalEntry, bool, error)
	summaryFn     func(ctx context.Context) (domain.Summary, error)
	seriesFn      func(window domain.TimeWindow) domain.Series
	calendarFn    func(month string) (domain.CalendarMonth, error)
}

func (m *mockJournal) Create(ctx context.Context, in app.EntryInput) (*domain.JournalEntry, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockJournal) Update(ctx context.Context, id uuid.UUID, in app.EntryInput) (*domain.JournalEntry, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, in)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockJournal) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockJournal) Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockJournal) Search(ctx context.Context, query string) ([]domain.JournalEntry, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockJournal) EnsureTodayEntry(ctx context.Context) (*domain.JournalEntry, bool, error) {
	if m.ensureTodayFn != nil {
		return m.ensureTodayFn(ctx)
	}
	return nil, false, fmt.Errorf("not implemented")
}

func (m *mockJournal) Classify(text string) domain.SentimentAnalysis {
	if text == "" {
		return domain.SentimentAnalysis{Label: domain.LabelNeutral, Emoji: "😐"}
	}
	return domain.SentimentAnalysis{Score: 0.4, Label: domain.LabelPositive, Emoji: "😊"}
}

func (m *mockJournal) Summary(ctx context.Context) (domain.Summary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ctx)
	}
	return domain.Summary{}, nil
}

func (m *mockJournal) Series(window domain.TimeWindow) domain.Series {
	if m.seriesFn != nil {
		return m.seriesFn(window)
	}
	return domain.Series{Window: window}
}

func (m *mockJournal) Calendar(month string) (domain.CalendarMonth, error) {
	if m.calendarFn != nil {
		return m.calendarFn(month)
	}
	return domain.CalendarMonth{Month: month}, nil
}

func (m *mockJournal) HumanDate(time.Time) string {
	return "Today"
}

type serverOption func(*serverOptions)

type serverOptions struct {
	healthChecks []HealthCheck
	handlers     Handlers
	rateLimit    float64
	rateBurst    int
}

func withHealthChecks(checks ...HealthCheck) serverOption {
	return func(o *serverOptions) { o.healthChecks = checks }
}

func withHandlers(h Handlers) serverOption {
	return func(o *serverOptions) { o.handlers = h }
}

func withRateLimit(ratePerSecond float64, burst int) serverOption {
	return func(o *serverOptions) { o.rateLimit, o.rateBurst = ratePerSecond, burst }
}

func newTestServer(t *testing.T, journal journalService, opts ...serverOption) *Server {
	t.Helper()
	o := serverOptions{rateLimit: 1000, rateBurst: 1000}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &config.Config{
		AppEnv:       "test",
		Port:         "0",
		APIRateLimit: o.rateLimit,
		APIRateBurst: o.rateBurst,
	}
	return NewServer(cfg, journal, o.handlers, o.healthChecks)
}
