// Package service is the caller-facing API of the scoring core. It loads records from the store,
// scores them and ranks the results. Scoring never fails; only store errors are returned.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/ai"
	"github.com/ablejobs/matchcore/internal/batch"
	"github.com/ablejobs/matchcore/internal/logger"
	"github.com/ablejobs/matchcore/internal/match"
	"github.com/ablejobs/matchcore/internal/people"
	"github.com/ablejobs/matchcore/internal/ranking"
	"github.com/ablejobs/matchcore/internal/store"
)

type Service struct {
	store        store.Reader
	evaluator    *ai.Evaluator
	orchestrator *batch.Orchestrator
	people       *people.Matcher
	logger       *zap.Logger
}

type Config struct {
	Store       store.Reader
	Evaluator   *ai.Evaluator
	People      *people.Matcher
	Concurrency int
	Logger      *zap.Logger
}

func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("service requires a store")
	}

	l := logger.WithFields(cfg.Logger)

	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = ai.NewEvaluator(nil, nil, l, ai.Options{})
	}

	matcher := cfg.People
	if matcher == nil {
		var err error
		if matcher, err = people.NewMatcher(people.DefaultWeights()); err != nil {
			return nil, err
		}
	}

	return &Service{
		store:        cfg.Store,
		evaluator:    evaluator,
		orchestrator: batch.New(evaluator, cfg.Concurrency, l),
		people:       matcher,
		logger:       l,
	}, nil
}

type options struct {
	minPercent float64
	hasMin     bool
	invalid    error
}

type Option func(*options)

// WithMinPercent drops ranked results scoring below minPercent. A value outside 0..100 (or NaN)
// is ignored and logged, and the full ranked list is returned.
func WithMinPercent(minPercent float64) Option {
	return func(o *options) {
		if err := ranking.ValidateThreshold(minPercent); err != nil {
			o.invalid = err
			o.hasMin = false
			return
		}
		o.minPercent = minPercent
		o.hasMin = true
		o.invalid = nil
	}
}

// ScoreApplicantsForJob scores every applicant of the job and returns them best first.
func (s *Service) ScoreApplicantsForJob(ctx context.Context, jobID string, opts ...Option) ([]match.MatchResult, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	job, err := s.store.Job(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("loading job: %w", err)
	}
	applicants, err := s.store.ApplicantsForJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("loading applicants: %w", err)
	}

	ranked := ranking.Rank(s.orchestrator.EvaluateAll(ctx, job, applicants))
	if o.invalid != nil {
		s.logger.Warn("ignoring minimum score",
			zap.String(logger.FieldJobID, jobID),
			zap.Error(o.invalid),
		)
	}
	if !o.hasMin {
		return ranked, nil
	}

	kept, step := ranking.FilterAtOrAbove(ranked, o.minPercent)
	ranking.LogStep(s.logger, step,
		zap.String(logger.FieldJobID, jobID),
		zap.Float64("min_percent", o.minPercent),
	)
	return kept, nil
}

// ScoreResumeForJob scores free résumé text against a stored job.
func (s *Service) ScoreResumeForJob(ctx context.Context, resumeText, jobID string) (match.MatchResult, error) {
	job, err := s.store.Job(ctx, jobID)
	if err != nil {
		return match.MatchResult{}, fmt.Errorf("loading job: %w", err)
	}
	result := s.evaluator.EvaluateResume(ctx, job, resumeText)
	if result.FallbackReason == match.KindTransport {
		s.logger.Warn("external text-generation service unreachable, heuristic score used",
			zap.String(logger.FieldJobID, jobID),
		)
	}
	return result, nil
}

// ScorePeopleMatches ranks every other user by compatibility with userID.
func (s *Service) ScorePeopleMatches(ctx context.Context, userID string) ([]match.CompatibilityResult, error) {
	self, err := s.store.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	others, err := s.store.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}

	results := s.people.ScoreAll(self, others)
	s.logger.Debug("people matches scored",
		zap.String(logger.FieldUserID, userID),
		zap.Int("candidates", len(results)),
	)
	return results, nil
}
