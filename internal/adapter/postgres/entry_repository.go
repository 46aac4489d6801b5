package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/crypto"
)

const entryColumns = `id, title, content, entry_date, created_at, sentiment_score, sentiment_label, sentiment_emoji, tags`

// EntryRepo stores entries in Postgres. Title and content are sealed with the crypto service.
type EntryRepo struct {
	pool   *pgxpool.Pool
	crypto crypto.Service
}

var _ domain.EntryRepository = (*EntryRepo)(nil)

func NewEntryRepo(pool *pgxpool.Pool, cryptoSvc crypto.Service) *EntryRepo {
	return &EntryRepo{pool: pool, crypto: cryptoSvc}
}

func (r *EntryRepo) Create(ctx context.Context, entry *domain.JournalEntry) error {
	title, content, err := r.seal(entry)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, title, content, entry.Date, entry.CreatedAt,
		entry.Sentiment.Score, string(entry.Sentiment.Label), entry.Sentiment.Emoji, tagsOrEmpty(entry.Tags))
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (r *EntryRepo) Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)

	entry, err := r.scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return entry, nil
}

// Update rewrites title, content, sentiment and tags. The entry date is never changed.
func (r *EntryRepo) Update(ctx context.Context, entry *domain.JournalEntry) error {
	title, content, err := r.seal(entry)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE entries
		SET title = $2, content = $3, sentiment_score = $4, sentiment_label = $5,
		    sentiment_emoji = $6, tags = $7, updated_at = now()
		WHERE id = $1`,
		entry.ID, title, content,
		entry.Sentiment.Score, string(entry.Sentiment.Label), entry.Sentiment.Emoji, tagsOrEmpty(entry.Tags))
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *EntryRepo) List(ctx context.Context) ([]domain.JournalEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY entry_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

func (r *EntryRepo) scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var (
		entry           domain.JournalEntry
		title, content  string
		label           string
		date, createdAt time.Time
	)

	err := row.Scan(&entry.ID, &title, &content, &date, &createdAt,
		&entry.Sentiment.Score, &label, &entry.Sentiment.Emoji, &entry.Tags)
	if err != nil {
		return nil, err
	}

	if entry.Title, err = r.crypto.Decrypt(title); err != nil {
		return nil, fmt.Errorf("failed to decrypt title: %w", err)
	}
	if entry.Content, err = r.crypto.Decrypt(content); err != nil {
		return nil, fmt.Errorf("failed to decrypt content: %w", err)
	}

	entry.Date = date
	entry.CreatedAt = createdAt
	entry.Sentiment.Label = domain.SentimentLabel(label)
	if len(entry.Tags) == 0 {
		entry.Tags = nil
	}
	return &entry, nil
}

func (r *EntryRepo) seal(entry *domain.JournalEntry) (title, content string, err error) {
	if title, err = r.crypto.Encrypt(entry.Title); err != nil {
		return "", "", fmt.Errorf("failed to encrypt title: %w", err)
	}
	if content, err = r.crypto.Encrypt(entry.Content); err != nil {
		return "", "", fmt.Errorf("failed to encrypt content: %w", err)
	}
	return title, content, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
