// Package httpapi exposes the scoring service over HTTP.
package httpapi

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/match"
	"github.com/ablejobs/matchcore/internal/ranking"
	"github.com/ablejobs/matchcore/internal/service"
)

// Scorer is the part of service.Service the handlers need.
type Scorer interface {
	ScoreApplicantsForJob(ctx context.Context, jobID string, opts ...service.Option) ([]match.MatchResult, error)
	ScoreResumeForJob(ctx context.Context, resumeText, jobID string) (match.MatchResult, error)
	ScorePeopleMatches(ctx context.Context, userID string) ([]match.CompatibilityResult, error)
}

type Options struct {
	// Verbose adds the underlying error text to error responses.
	Verbose bool
}

type Handler struct {
	scorer Scorer
	logger *zap.Logger
}

// NewApp builds the fiber application with every route registered.
func NewApp(scorer Scorer, l *zap.Logger, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "matchcore",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(opts.Verbose),
	})
	app.Use(recover.New())

	h := &Handler{scorer: scorer, logger: l}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	app.Use(h.accessLog)
	h.RegisterRoutes(app)
	return app
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/healthz", h.Health)
	app.Get("/jobs/:id/applicants/scores", h.ApplicantScores)
	app.Post("/jobs/:id/resume-score", h.ResumeScore)
	app.Get("/users/:id/people-matches", h.PeopleMatches)
}

func (h *Handler) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	h.logger.Debug("http request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return err
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return respond(c, "ok", nil, nil)
}

type thresholdMeta struct {
	MinPercent *float64 `json:"minPercent,omitempty"`
	Count      int      `json:"count"`
}

func (h *Handler) ApplicantScores(c *fiber.Ctx) error {
	var opts []service.Option
	meta := thresholdMeta{}

	if raw := strings.TrimSpace(c.Query("minPercent")); raw != "" {
		minPercent, err := strconv.ParseFloat(raw, 64)
		if err != nil || ranking.ValidateThreshold(minPercent) != nil {
			return fiber.NewError(fiber.StatusBadRequest, "minPercent must be a number between 0 and 100")
		}
		opts = append(opts, service.WithMinPercent(minPercent))
		meta.MinPercent = &minPercent
	}

	results, err := h.scorer.ScoreApplicantsForJob(c.UserContext(), c.Params("id"), opts...)
	if err != nil {
		return err
	}
	meta.Count = len(results)
	return respond(c, "applicants scored", results, meta)
}

type resumeRequest struct {
	ResumeText string `json:"resumeText"`
}

func (h *Handler) ResumeScore(c *fiber.Ctx) error {
	var req resumeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "request body must be JSON with a resumeText field")
	}

	result, err := h.scorer.ScoreResumeForJob(c.UserContext(), req.ResumeText, c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, "resume scored", result, nil)
}

func (h *Handler) PeopleMatches(c *fiber.Ctx) error {
	results, err := h.scorer.ScorePeopleMatches(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respond(c, "people matches scored", results, thresholdMeta{Count: len(results)})
}
