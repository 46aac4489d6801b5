package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pscheid92/moodpulse/internal/domain"
)

type mockEntryRepo struct {
	createFn func(ctx context.Context, entry *domain.JournalEntry) error
	getFn    func(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)
	updateFn func(ctx context.Context, entry *domain.JournalEntry) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
	listFn   func(ctx context.Context) ([]domain.JournalEntry, error)
}

func (m *mockEntryRepo) Create(ctx context.Context, entry *domain.JournalEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}

func (m *mockEntryRepo) Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, fmt.Errorf("not implemented")
}

func (m *mockEntryRepo) Update(ctx context.Context, entry *domain.JournalEntry) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, entry)
	}
	return nil
}

func (m *mockEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockEntryRepo) List(ctx context.Context) ([]domain.JournalEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockInsightsCache computes on every call unless getSummaryFn is set.
type mockInsightsCache struct {
	getSummaryFn  func(ctx context.Context, dayKey string, compute func(ctx context.Context) (domain.Summary, error)) (domain.Summary, error)
	invalidateFn  func(ctx context.Context) error
	invalidations int
	dayKeys       []string
}

func (m *mockInsightsCache) GetSummary(ctx context.Context, dayKey string, compute func(ctx context.Context) (domain.Summary, error)) (domain.Summary, error) {
	m.dayKeys = append(m.dayKeys, dayKey)
	if m.getSummaryFn != nil {
		return m.getSummaryFn(ctx, dayKey, compute)
	}
	return compute(ctx)
}

func (m *mockInsightsCache) Invalidate(ctx context.Context) error {
	m.invalidations++
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx)
	}
	return nil
}

type mockPublisher struct {
	mu        sync.Mutex
	publishFn func(ctx context.Context, summary domain.Summary) error
	published []domain.Summary
}

func (m *mockPublisher) PublishInsightsUpdated(ctx context.Context, summary domain.Summary) error {
	m.mu.Lock()
	m.published = append(m.published, summary)
	m.mu.Unlock()
	if m.publishFn != nil {
		return m.publishFn(ctx, summary)
	}
	return nil
}

func (m *mockPublisher) snapshot() []domain.Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.published)
}
