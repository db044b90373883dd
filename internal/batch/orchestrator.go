// Package batch scores every applicant of a job with a bounded number of evaluations in flight.
package batch

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ablejobs/matchcore/internal/logger"
	"github.com/ablejobs/matchcore/internal/match"
)

const DefaultConcurrency = 5

// Evaluator scores one candidate. It must not fail: errors end in a tagged fallback result.
type Evaluator interface {
	Evaluate(ctx context.Context, job match.JobRecord, c match.CandidateRecord) match.MatchResult
	Available() bool
}

type Orchestrator struct {
	evaluator Evaluator
	limit     int
	logger    *zap.Logger
}

// New returns an orchestrator running at most concurrency evaluations at once.
func New(evaluator Evaluator, concurrency int, l *zap.Logger) *Orchestrator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Orchestrator{
		evaluator: evaluator,
		limit:     concurrency,
		logger:    logger.WithFields(l),
	}
}

// EvaluateAll returns one result per candidate, at the candidate's input position.
// Candidates without profile data get a zero score and never reach the evaluator.
func (o *Orchestrator) EvaluateAll(ctx context.Context, job match.JobRecord, candidates []match.CandidateRecord) []match.MatchResult {
	log := logger.ForBatch(o.logger, uuid.NewString(), job.ID)
	results := make([]match.MatchResult, len(candidates))

	log.Debug("batch started",
		zap.Int("candidates", len(candidates)),
		zap.Int("concurrency", o.limit),
		zap.Bool("ai_available", o.evaluator.Available()),
	)

	var g errgroup.Group
	g.SetLimit(o.limit)

	for i, c := range candidates {
		if !c.HasProfileData() {
			results[i] = match.InsufficientData(job.ID, c.ID)
			continue
		}
		g.Go(func() error {
			results[i] = o.evaluator.Evaluate(ctx, job, c)
			return nil
		})
	}
	_ = g.Wait()

	summary := summarize(results)
	if summary.unavailable > 0 {
		log.Warn("external text-generation service unavailable, heuristic scores used",
			zap.Int("affected", summary.unavailable),
		)
	}
	if summary.unreachable > 0 {
		log.Warn("external text-generation service unreachable, heuristic scores used",
			zap.Int("affected", summary.unreachable),
		)
	}

	log.Info("batch scored",
		zap.Int("candidates", len(results)),
		zap.Int("ai", summary.ai),
		zap.Int("heuristic", summary.heuristic),
		zap.Int("insufficient_data", summary.insufficient),
		zap.Int("unreachable", summary.unreachable),
	)

	return results
}

type batchSummary struct {
	ai           int
	heuristic    int
	insufficient int
	unavailable  int
	unreachable  int
}

func summarize(results []match.MatchResult) batchSummary {
	var s batchSummary
	for _, r := range results {
		switch r.Origin {
		case match.OriginAI:
			s.ai++
		case match.OriginInsufficientData:
			s.insufficient++
		default:
			s.heuristic++
		}
		switch r.FallbackReason {
		case match.KindExternalServiceUnavailable:
			s.unavailable++
		case match.KindTransport:
			s.unreachable++
		}
	}
	return s
}
