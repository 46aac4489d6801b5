package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/crypto/cryptotest"
)

func newTestEntry(title string, date time.Time, score float64) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:        uuid.New(),
		Title:     title,
		Content:   "content of " + title,
		Date:      date,
		CreatedAt: date,
		Sentiment: domain.SentimentAnalysis{Score: score, Label: domain.LabelPositive, Emoji: "😊"},
		Tags:      []string{"work"},
	}
}

func TestEntryRepo_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})
	ctx := context.Background()
	date := time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC)

	entry := newTestEntry("Morning", date, 0.4)
	require.NoError(t, repo.Create(ctx, entry))

	got, err := repo.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, "Morning", got.Title)
	assert.Equal(t, "content of Morning", got.Content)
	assert.True(t, date.Equal(got.Date))
	assert.Equal(t, entry.Sentiment, got.Sentiment)
	assert.Equal(t, []string{"work"}, got.Tags)
}

func TestEntryRepo_StoresSealedText(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})
	ctx := context.Background()

	entry := newTestEntry("Secret", time.Now().UTC(), 0)
	require.NoError(t, repo.Create(ctx, entry))

	var title, content string
	err := pool.QueryRow(ctx, `SELECT title, content FROM entries WHERE id = $1`, entry.ID).Scan(&title, &content)
	require.NoError(t, err)
	assert.Equal(t, "enc(Secret)", title)
	assert.Equal(t, "enc(content of Secret)", content)
}

func TestEntryRepo_GetNotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryRepo_UpdateKeepsDate(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	entry := newTestEntry("Evening", date, 0.4)
	require.NoError(t, repo.Create(ctx, entry))

	entry.Title = "Evening, revised"
	entry.Date = date.AddDate(0, 0, 2)
	entry.Sentiment = domain.SentimentAnalysis{Score: -0.5, Label: domain.LabelNegative, Emoji: "😕"}
	entry.Tags = nil
	require.NoError(t, repo.Update(ctx, entry))

	got, err := repo.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "Evening, revised", got.Title)
	assert.True(t, date.Equal(got.Date))
	assert.Equal(t, -0.5, got.Sentiment.Score)
	assert.Equal(t, domain.LabelNegative, got.Sentiment.Label)
	assert.Nil(t, got.Tags)
}

func TestEntryRepo_UpdateNotFound(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})

	err := repo.Update(context.Background(), newTestEntry("Ghost", time.Now().UTC(), 0))
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryRepo_Delete(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})
	ctx := context.Background()

	entry := newTestEntry("Temp", time.Now().UTC(), 0)
	require.NoError(t, repo.Create(ctx, entry))

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), domain.ErrEntryNotFound)

	_, err := repo.Get(ctx, entry.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryRepo_ListNewestFirst(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, newTestEntry(title, base.AddDate(0, 0, i), 0)))
	}

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Title)
	assert.Equal(t, "second", entries[1].Title)
	assert.Equal(t, "first", entries[2].Title)
}

func TestEntryRepo_ListEmpty(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewEntryRepo(pool, cryptotest.Marker{})

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
