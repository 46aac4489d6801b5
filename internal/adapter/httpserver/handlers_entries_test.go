package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	apperrors "github.com/pscheid92/moodpulse/internal/platform/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEntryDate = time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

func testEntry(id uuid.UUID, title string) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:        id,
		Title:     title,
		Content:   "a good day",
		Date:      testEntryDate,
		CreatedAt: testEntryDate.Add(9 * time.Hour),
		Sentiment: domain.SentimentAnalysis{Score: 0.4, Label: domain.LabelPositive, Emoji: "😊"},
	}
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.Response {
	t.Helper()
	var resp apperrors.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateEntry(t *testing.T) {
	id := uuid.New()
	var got app.EntryInput
	journal := &mockJournal{
		createFn: func(_ context.Context, in app.EntryInput) (*domain.JournalEntry, error) {
			got = in
			return testEntry(id, in.Title), nil
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodPost, "/api/entries",
		`{"title":"Morning","content":"a good day","tags":["work"],"date":"2025-03-10T08:00:00Z"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Morning", got.Title)
	assert.Equal(t, []string{"work"}, got.Tags)
	require.NotNil(t, got.Date)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC), got.Date.UTC())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp["id"])
	assert.Equal(t, "Today", resp["displayDate"])
	assert.Equal(t, "rgb(34, 197, 94)", resp["color"])
	assert.Equal(t, "positive", resp["sentiment"].(map[string]any)["label"])
}

func TestCreateEntry_InvalidBody(t *testing.T) {
	srv := newTestServer(t, &mockJournal{})

	rec := doRequest(srv, http.MethodPost, "/api/entries", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeError(t, rec).Error)
}

func TestCreateEntry_ValidationError(t *testing.T) {
	journal := &mockJournal{
		createFn: func(context.Context, app.EntryInput) (*domain.JournalEntry, error) {
			return nil, fmt.Errorf("%w: title or content is required", domain.ErrInvalidEntry)
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodPost, "/api/entries", `{"title":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, apperrors.TypeValidation, resp.Type)
	assert.Contains(t, resp.Error, "title or content is required")
}

func TestCreateEntry_StorageFailureHidesCause(t *testing.T) {
	journal := &mockJournal{
		createFn: func(context.Context, app.EntryInput) (*domain.JournalEntry, error) {
			return nil, fmt.Errorf("insert: connection reset by peer")
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodPost, "/api/entries", `{"title":"Morning"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "failed to create entry", decodeError(t, rec).Error)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestListEntries_PassesQuery(t *testing.T) {
	var gotQuery string
	journal := &mockJournal{
		searchFn: func(_ context.Context, q string) ([]domain.JournalEntry, error) {
			gotQuery = q
			return []domain.JournalEntry{*testEntry(uuid.New(), "Morning"), *testEntry(uuid.New(), "Evening")}, nil
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodGet, "/api/entries?q=good", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", gotQuery)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "Morning", resp[0]["title"])
	assert.Equal(t, "Evening", resp[1]["title"])
}

func TestListEntries_EmptyIsArray(t *testing.T) {
	srv := newTestServer(t, &mockJournal{})

	rec := doRequest(srv, http.MethodGet, "/api/entries", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetEntry(t *testing.T) {
	id := uuid.New()
	journal := &mockJournal{
		getFn: func(_ context.Context, got uuid.UUID) (*domain.JournalEntry, error) {
			if got != id {
				return nil, domain.ErrEntryNotFound
			}
			return testEntry(id, "Morning"), nil
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodGet, "/api/entries/"+id.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, http.MethodGet, "/api/entries/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "entry not found", resp.Error)
	assert.Contains(t, resp.Context, "entry_id")
}

func TestGetEntry_InvalidID(t *testing.T) {
	srv := newTestServer(t, &mockJournal{})

	rec := doRequest(srv, http.MethodGet, "/api/entries/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "invalid entry ID", resp.Error)
	assert.Equal(t, "not-a-uuid", resp.Context["entry_id"])
}

func TestUpdateEntry_IgnoresDate(t *testing.T) {
	id := uuid.New()
	var got app.EntryInput
	journal := &mockJournal{
		updateFn: func(_ context.Context, gotID uuid.UUID, in app.EntryInput) (*domain.JournalEntry, error) {
			assert.Equal(t, id, gotID)
			got = in
			return testEntry(id, in.Title), nil
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodPut, "/api/entries/"+id.String(),
		`{"title":"Edited","content":"still good","date":"2020-01-01T00:00:00Z"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Edited", got.Title)
	assert.Nil(t, got.Date)
}

func TestUpdateEntry_NotFound(t *testing.T) {
	journal := &mockJournal{
		updateFn: func(context.Context, uuid.UUID, app.EntryInput) (*domain.JournalEntry, error) {
			return nil, fmt.Errorf("update: %w", domain.ErrEntryNotFound)
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodPut, "/api/entries/"+uuid.NewString(), `{"title":"Edited"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	id := uuid.New()
	var deleted uuid.UUID
	journal := &mockJournal{
		deleteFn: func(_ context.Context, got uuid.UUID) error {
			deleted = got
			return nil
		},
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodDelete, "/api/entries/"+id.String(), "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, id, deleted)
}

func TestDeleteEntry_NotFound(t *testing.T) {
	journal := &mockJournal{
		deleteFn: func(context.Context, uuid.UUID) error { return domain.ErrEntryNotFound },
	}
	srv := newTestServer(t, journal)

	rec := doRequest(srv, http.MethodDelete, "/api/entries/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodayEntry(t *testing.T) {
	tests := []struct {
		name       string
		created    bool
		wantStatus int
	}{
		{"creates when missing", true, http.StatusCreated},
		{"returns existing", false, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := &mockJournal{
				ensureTodayFn: func(context.Context) (*domain.JournalEntry, bool, error) {
					return testEntry(uuid.New(), app.TodayEntryTitle), tt.created, nil
				},
			}
			srv := newTestServer(t, journal)

			rec := doRequest(srv, http.MethodPost, "/api/entries/today", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), app.TodayEntryTitle)
		})
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, &mockJournal{})

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-ID"))
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, &mockJournal{})

	rec := doRequest(srv, http.MethodGet, "/api/entries", "")

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
}
