package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/config"
)

type journalService interface {
	Create(ctx context.Context, in app.EntryInput) (*domain.JournalEntry, error)
	Update(ctx context.Context, id uuid.UUID, in app.EntryInput) (*domain.JournalEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.JournalEntry, error)
	Search(ctx context.Context, query string) ([]domain.JournalEntry, error)
	EnsureTodayEntry(ctx context.Context) (*domain.JournalEntry, bool, error)
	Classify(text string) domain.SentimentAnalysis
	Summary(ctx context.Context) (domain.Summary, error)
	Series(window domain.TimeWindow) domain.Series
	Calendar(month string) (domain.CalendarMonth, error)
	HumanDate(t time.Time) string
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	journal journalService

	websocketHandler http.Handler
	metricsHandler   http.Handler
	httpMetrics      *metrics.HTTPMetrics

	healthChecks []HealthCheck
	startTime    time.Time
}

// Handlers groups the optional endpoints mounted next to the API. Nil fields are not mounted.
type Handlers struct {
	WebSocket   http.Handler
	Metrics     http.Handler
	HTTPMetrics *metrics.HTTPMetrics
}

func NewServer(cfg *config.Config, journal journalService, handlers Handlers, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:             e,
		config:           cfg,
		journal:          journal,
		websocketHandler: handlers.WebSocket,
		metricsHandler:   handlers.Metrics,
		httpMetrics:      handlers.HTTPMetrics,
		healthChecks:     healthChecks,
		startTime:        time.Now(),
	}

	srv.registerRoutes()
	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
