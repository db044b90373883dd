package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/heuristic"
	"github.com/ablejobs/matchcore/internal/logger"
	"github.com/ablejobs/matchcore/internal/match"
	"github.com/ablejobs/matchcore/internal/utils"
)

const (
	DefaultCallTimeout  = 20 * time.Second
	defaultMaxLogLength = 200
)

type Options struct {
	// CallTimeout bounds a single external call.
	CallTimeout time.Duration
	// FallbackOnly disables the external service entirely, e.g. in development.
	FallbackOnly bool
	// MaxLogLength caps prompt and response previews in debug logs.
	MaxLogLength int
}

// Evaluator scores one job/candidate pair. It never returns an error: every failure of the
// external path ends in the heuristic result tagged with the failure kind.
type Evaluator struct {
	generator    TextGenerator
	fallback     *heuristic.Scorer
	logger       *zap.Logger
	timeout      time.Duration
	fallbackOnly bool
	maxLogLen    int
}

// NewEvaluator wires the evaluator. A nil generator means fallback-only operation.
func NewEvaluator(generator TextGenerator, fallback *heuristic.Scorer, l *zap.Logger, opts Options) *Evaluator {
	if fallback == nil {
		fallback = heuristic.Default()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}

	l = logger.WithFields(l)
	if d, ok := generator.(describer); ok {
		l = logger.ForProvider(l, d.Provider(), d.Model())
	}

	return &Evaluator{
		generator:    generator,
		fallback:     fallback,
		logger:       l,
		timeout:      opts.CallTimeout,
		fallbackOnly: opts.FallbackOnly || generator == nil,
		maxLogLen:    opts.MaxLogLength,
	}
}

// Available reports whether evaluations will reach the external service at all.
func (e *Evaluator) Available() bool { return !e.fallbackOnly }

// Evaluate scores a candidate profile against a job.
func (e *Evaluator) Evaluate(ctx context.Context, job match.JobRecord, c match.CandidateRecord) match.MatchResult {
	result, err := e.assess(ctx, job.ID, c.ID, BuildCandidatePrompt(job, c))
	if err != nil {
		return e.degrade(c.ID, err, e.fallback.Score(job, c))
	}
	return result
}

// EvaluateResume scores free résumé text against a job. Blank text is insufficient data.
func (e *Evaluator) EvaluateResume(ctx context.Context, job match.JobRecord, resumeText string) match.MatchResult {
	if strings.TrimSpace(resumeText) == "" {
		return match.InsufficientData(job.ID, "")
	}

	result, err := e.assess(ctx, job.ID, "", BuildResumePrompt(job, resumeText))
	if err != nil {
		return e.degrade("", err, e.fallback.ScoreResume(job, resumeText))
	}
	return result
}

func (e *Evaluator) assess(ctx context.Context, jobID, candidateID string, p Prompt) (match.MatchResult, error) {
	if e.fallbackOnly {
		return match.MatchResult{}, match.ErrServiceUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("text generation request",
		zap.String(logger.FieldJobID, jobID),
		zap.String(logger.FieldCandidateID, candidateID),
		zap.Int("prompt_length", utf8.RuneCountInString(p.Text)),
		zap.String("prompt_preview", utils.Preview(p.Text, e.maxLogLen)),
	)

	raw, err := e.generator.Complete(callCtx, p.Text, p.FormatInstructions)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w: %w", e.timeout, context.DeadlineExceeded, err)
		}
		return match.MatchResult{}, err
	}

	e.logger.Debug("text generation response",
		zap.String(logger.FieldJobID, jobID),
		zap.String(logger.FieldCandidateID, candidateID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.Preview(raw, e.maxLogLen)),
	)

	a, err := ParseAssessment(raw)
	if err != nil {
		return match.MatchResult{}, err
	}

	return match.MatchResult{
		CandidateID:    candidateID,
		JobID:          jobID,
		Score:          a.Score,
		Reasons:        a.Reasons,
		Strengths:      a.Strengths,
		Weaknesses:     a.Weaknesses,
		Recommendation: a.Recommendation,
		Origin:         match.OriginAI,
	}.Normalize(), nil
}

// degrade tags the heuristic result with the failure kind. Unavailability and transport failures
// mean the service is unreachable; callers report those once per batch, so they only reach the
// debug log here. Per-item failures are warned with the candidate id.
func (e *Evaluator) degrade(candidateID string, err error, fallback match.MatchResult) match.MatchResult {
	kind := match.KindOf(err)
	fields := []zap.Field{
		zap.String(logger.FieldJobID, fallback.JobID),
		zap.String(logger.FieldCandidateID, candidateID),
		zap.String("kind", string(kind)),
		zap.Error(err),
	}
	switch kind {
	case match.KindExternalServiceUnavailable:
	case match.KindTransport:
		e.logger.Debug("AI service unreachable, using heuristic score", fields...)
	default:
		e.logger.Warn("AI evaluation failed, using heuristic score", fields...)
	}

	fallback.Origin = match.OriginHeuristic
	fallback.FallbackReason = kind
	return fallback.Normalize()
}
