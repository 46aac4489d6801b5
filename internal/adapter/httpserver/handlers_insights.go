package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/moodpulse/internal/domain"
	apperrors "github.com/pscheid92/moodpulse/internal/platform/errors"
	"github.com/pscheid92/moodpulse/internal/sentiment"
)

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	domain.SentimentAnalysis
	Color string `json:"color"`
	Mood  string `json:"mood"`
}

func (s *Server) registerSentimentRoutes(g *echo.Group) {
	g.POST("/sentiment/classify", s.handleClassify)
}

func (s *Server) registerInsightsRoutes(g *echo.Group) {
	g.GET("/insights/summary", s.handleSummary)
	g.GET("/insights/series", s.handleSeries)
	g.GET("/insights/calendar", s.handleCalendar)
}

func (s *Server) handleClassify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	result := s.journal.Classify(req.Text)
	band := sentiment.BandFor(result.Score)
	return writeJSON(c, http.StatusOK, classifyResponse{
		SentimentAnalysis: result,
		Color:             band.Color,
		Mood:              band.Title,
	})
}

func (s *Server) handleSummary(c echo.Context) error {
	summary, err := s.journal.Summary(c.Request().Context())
	if err != nil {
		return toAppError(err, "failed to compute summary")
	}
	return writeJSON(c, http.StatusOK, summary)
}

func (s *Server) handleSeries(c echo.Context) error {
	raw := c.QueryParam("range")
	switch raw {
	case "", string(domain.WindowWeek), string(domain.WindowMonth), string(domain.WindowAll):
	default:
		return apperrors.ValidationError("range must be week, month or all").WithField("range", raw)
	}

	return writeJSON(c, http.StatusOK, s.journal.Series(domain.ParseTimeWindow(raw)))
}

func (s *Server) handleCalendar(c echo.Context) error {
	month := c.QueryParam("month")
	cal, err := s.journal.Calendar(month)
	if err != nil {
		return toAppError(err, "failed to build calendar").WithField("month", month)
	}
	return writeJSON(c, http.StatusOK, cal)
}
