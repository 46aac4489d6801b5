// Package memory holds the process-local entry store used when STORAGE=memory.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pscheid92/moodpulse/internal/domain"
)

type EntryRepo struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]domain.JournalEntry
}

var _ domain.EntryRepository = (*EntryRepo)(nil)

func NewEntryRepo() *EntryRepo {
	return &EntryRepo{entries: make(map[uuid.UUID]domain.JournalEntry)}
}

func (r *EntryRepo) Create(_ context.Context, entry *domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entry.ID] = clone(*entry)
	return nil
}

func (r *EntryRepo) Get(_ context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	c := clone(entry)
	return &c, nil
}

// Update replaces everything except Date and CreatedAt.
func (r *EntryRepo) Update(_ context.Context, entry *domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.entries[entry.ID]
	if !ok {
		return domain.ErrEntryNotFound
	}

	updated := clone(*entry)
	updated.Date = stored.Date
	updated.CreatedAt = stored.CreatedAt
	r.entries[entry.ID] = updated
	return nil
}

func (r *EntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *EntryRepo) List(_ context.Context) ([]domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.JournalEntry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, clone(e))
	}

	slices.SortFunc(entries, func(a, b domain.JournalEntry) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return entries, nil
}

func clone(e domain.JournalEntry) domain.JournalEntry {
	e.Tags = slices.Clone(e.Tags)
	return e
}
