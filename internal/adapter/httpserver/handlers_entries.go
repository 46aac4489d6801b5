package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	apperrors "github.com/pscheid92/moodpulse/internal/platform/errors"
	"github.com/pscheid92/moodpulse/internal/sentiment"
)

type entryRequest struct {
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Tags    []string   `json:"tags"`
	Date    *time.Time `json:"date,omitempty"`
}

type entryResponse struct {
	domain.JournalEntry
	DisplayDate string `json:"displayDate"`
	Color       string `json:"color"`
}

func (s *Server) registerEntryRoutes(g *echo.Group) {
	g.GET("/entries", s.handleListEntries)
	g.POST("/entries", s.handleCreateEntry)
	g.POST("/entries/today", s.handleTodayEntry)
	g.GET("/entries/:id", s.handleGetEntry)
	g.PUT("/entries/:id", s.handleUpdateEntry)
	g.DELETE("/entries/:id", s.handleDeleteEntry)
}

func (s *Server) handleListEntries(c echo.Context) error {
	entries, err := s.journal.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toAppError(err, "failed to list entries")
	}

	response := make([]entryResponse, len(entries))
	for i := range entries {
		response[i] = s.toEntryResponse(&entries[i])
	}
	return writeJSON(c, http.StatusOK, response)
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	entry, err := s.journal.Create(c.Request().Context(), app.EntryInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
		Date:    req.Date,
	})
	if err != nil {
		return toAppError(err, "failed to create entry")
	}
	return writeJSON(c, http.StatusCreated, s.toEntryResponse(entry))
}

func (s *Server) handleTodayEntry(c echo.Context) error {
	entry, created, err := s.journal.EnsureTodayEntry(c.Request().Context())
	if err != nil {
		return toAppError(err, "failed to prepare today's entry")
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return writeJSON(c, status, s.toEntryResponse(entry))
}

func (s *Server) handleGetEntry(c echo.Context) error {
	id, err := parseEntryID(c)
	if err != nil {
		return err
	}

	entry, err := s.journal.Get(c.Request().Context(), id)
	if err != nil {
		return toAppError(err, "failed to load entry").WithField("entry_id", id.String())
	}
	return writeJSON(c, http.StatusOK, s.toEntryResponse(entry))
}

func (s *Server) handleUpdateEntry(c echo.Context) error {
	id, err := parseEntryID(c)
	if err != nil {
		return err
	}

	var req entryRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	entry, err := s.journal.Update(c.Request().Context(), id, app.EntryInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return toAppError(err, "failed to update entry").WithField("entry_id", id.String())
	}
	return writeJSON(c, http.StatusOK, s.toEntryResponse(entry))
}

func (s *Server) handleDeleteEntry(c echo.Context) error {
	id, err := parseEntryID(c)
	if err != nil {
		return err
	}

	if err := s.journal.Delete(c.Request().Context(), id); err != nil {
		return toAppError(err, "failed to delete entry").WithField("entry_id", id.String())
	}

	if err := c.NoContent(http.StatusNoContent); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}
	return nil
}

func (s *Server) toEntryResponse(entry *domain.JournalEntry) entryResponse {
	return entryResponse{
		JournalEntry: *entry,
		DisplayDate:  s.journal.HumanDate(entry.Date),
		Color:        sentiment.Color(entry.Sentiment.Score),
	}
}

func parseEntryID(c echo.Context) (uuid.UUID, error) {
	raw := c.Param("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.ValidationError("invalid entry ID").WithField("entry_id", raw)
	}
	return id, nil
}

func writeJSON(c echo.Context, status int, body any) error {
	if err := c.JSON(status, body); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
