package insights

import (
	"bytes"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/moodpulse/internal/domain"
)

// DayOf truncates t to midnight of its calendar day in loc.
func DayOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Project derives one sample per entry, preserving the order of entries.
func Project(entries []domain.JournalEntry, loc *time.Location) []domain.MoodSample {
	samples := make([]domain.MoodSample, 0, len(entries))
	for _, e := range entries {
		samples = append(samples, domain.MoodSample{
			EntryID: e.ID,
			Day:     DayOf(e.Date, loc),
			Score:   e.Sentiment.Score,
		})
	}
	return samples
}

// MoodIndex is the incrementally maintained mood-sample sequence, most recently created first.
// It is not safe for concurrent use; the owner serializes access.
//
// Under KeyByDay a change to one entry also touches its same-day siblings. Those
// side effects are remembered so a Rebuild reproduces them instead of reviving
// or rescoring the siblings from storage.
type MoodIndex struct {
	loc     *time.Location
	keying  domain.SampleKeying
	samples []domain.MoodSample

	dropped    map[uuid.UUID]struct{}
	overridden map[uuid.UUID]float64
}

func NewMoodIndex(loc *time.Location, keying domain.SampleKeying) *MoodIndex {
	if loc == nil {
		loc = time.UTC
	}
	return &MoodIndex{
		loc:        loc,
		keying:     keying,
		dropped:    make(map[uuid.UUID]struct{}),
		overridden: make(map[uuid.UUID]float64),
	}
}

// Rebuild replaces the sequence with a projection of entries in creation order,
// newest first, with ID as the tie-break. The order of entries is ignored.
func (idx *MoodIndex) Rebuild(entries []domain.JournalEntry) {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b domain.JournalEntry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	live := make(map[uuid.UUID]struct{}, len(sorted))
	kept := sorted[:0]
	for _, e := range sorted {
		live[e.ID] = struct{}{}
		if _, ok := idx.dropped[e.ID]; ok {
			continue
		}
		if score, ok := idx.overridden[e.ID]; ok {
			e.Sentiment.Score = score
		}
		kept = append(kept, e)
	}
	idx.samples = Project(kept, idx.loc)

	// forget siblings that no longer exist in storage
	gone := func(id uuid.UUID) bool {
		_, ok := live[id]
		return !ok
	}
	maps.DeleteFunc(idx.dropped, func(id uuid.UUID, _ struct{}) bool { return gone(id) })
	maps.DeleteFunc(idx.overridden, func(id uuid.UUID, _ float64) bool { return gone(id) })
}

// Apply folds one entry lifecycle event into the sequence.
func (idx *MoodIndex) Apply(ev domain.EntryEvent) {
	switch ev.Kind {
	case domain.EntryCreated:
		idx.AddSample(ev.EntryID, ev.Date, ev.Score)
	case domain.EntryUpdated:
		idx.UpdateSample(ev.EntryID, ev.Date, ev.Score)
	case domain.EntryDeleted:
		idx.RemoveSample(ev.EntryID, ev.Date)
	}
}

// AddSample prepends a sample. Same-day samples are kept side by side, never merged.
func (idx *MoodIndex) AddSample(entryID uuid.UUID, date time.Time, score float64) {
	s := domain.MoodSample{EntryID: entryID, Day: DayOf(date, idx.loc), Score: score}
	idx.samples = slices.Insert(idx.samples, 0, s)
}

// UpdateSample overwrites scores in place. Position and day never change.
// Under KeyByDay every sample on date's day is overwritten.
func (idx *MoodIndex) UpdateSample(entryID uuid.UUID, date time.Time, score float64) {
	day := DayOf(date, idx.loc)
	for i := range idx.samples {
		if idx.matches(idx.samples[i], entryID, day) {
			idx.samples[i].Score = score
			if sibling := idx.samples[i].EntryID; sibling != entryID {
				idx.overridden[sibling] = score
			}
		}
	}
	delete(idx.overridden, entryID)
}

// RemoveSample drops the entry's sample. Under KeyByDay every sample on date's day is dropped.
func (idx *MoodIndex) RemoveSample(entryID uuid.UUID, date time.Time) {
	day := DayOf(date, idx.loc)
	idx.samples = slices.DeleteFunc(idx.samples, func(s domain.MoodSample) bool {
		if !idx.matches(s, entryID, day) {
			return false
		}
		if s.EntryID != entryID {
			idx.dropped[s.EntryID] = struct{}{}
			delete(idx.overridden, s.EntryID)
		}
		return true
	})
	delete(idx.overridden, entryID)
}

func (idx *MoodIndex) matches(s domain.MoodSample, entryID uuid.UUID, day time.Time) bool {
	if idx.keying == domain.KeyByDay {
		return s.Day.Equal(day)
	}
	return s.EntryID == entryID
}

// Samples returns a copy of the sequence.
func (idx *MoodIndex) Samples() []domain.MoodSample {
	return slices.Clone(idx.samples)
}

func (idx *MoodIndex) Len() int {
	return len(idx.samples)
}

func (idx *MoodIndex) Location() *time.Location {
	return idx.loc
}
