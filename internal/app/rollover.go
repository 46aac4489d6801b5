package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/correlation"
)

const defaultRolloverInterval = time.Minute

// RolloverTicker republishes the summary when the journal's calendar day
// changes. Streaks and trailing windows move at midnight even when nobody writes.
type RolloverTicker struct {
	journal  *Journal
	gate     domain.RolloverGate
	clock    clockwork.Clock
	interval time.Duration

	lastDay string
}

// NewRolloverTicker creates a ticker. gate may be nil for a single instance.
func NewRolloverTicker(journal *Journal, gate domain.RolloverGate, clock clockwork.Clock) *RolloverTicker {
	return &RolloverTicker{
		journal:  journal,
		gate:     gate,
		clock:    clock,
		interval: defaultRolloverInterval,
		lastDay:  journal.Today(),
	}
}

// Run checks for a day change every interval. It blocks until ctx is cancelled.
func (t *RolloverTicker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			t.check(ctx)
		}
	}
}

// check reports whether this instance published for a new day.
func (t *RolloverTicker) check(ctx context.Context) bool {
	day := t.journal.Today()
	if day == t.lastDay {
		return false
	}
	t.lastDay = day
	tickCtx := correlation.WithID(ctx, correlation.NewID())

	if t.gate != nil {
		acquired, err := t.gate.TryAcquire(tickCtx, day)
		switch {
		case err != nil:
			slog.WarnContext(tickCtx, "Rollover: gate unavailable, publishing locally", "day", day, "error", err)
		case !acquired:
			slog.DebugContext(tickCtx, "Rollover: another instance announces the day", "day", day)
			return false
		}
	}

	if err := t.journal.PublishSummary(tickCtx); err != nil {
		slog.WarnContext(tickCtx, "Rollover: publish failed", "day", day, "error", err)
		return false
	}

	slog.InfoContext(tickCtx, "Rollover: published summary for new day", "day", day)
	return true
}
