package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ablejobs/matchcore/internal/heuristic"
	"github.com/ablejobs/matchcore/internal/logger"
	"github.com/ablejobs/matchcore/internal/match"
)

type stubGenerator struct {
	mu         sync.Mutex
	respond    func(ctx context.Context, prompt string) (string, error)
	calls      int
	lastPrompt string
	lastFormat string
}

func (s *stubGenerator) Complete(ctx context.Context, prompt, format string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.lastPrompt = prompt
	s.lastFormat = format
	s.mu.Unlock()
	return s.respond(ctx, prompt)
}

func (s *stubGenerator) Provider() string { return "stub" }
func (s *stubGenerator) Model() string    { return "stub-1" }

func (s *stubGenerator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func respondWith(raw string, err error) func(context.Context, string) (string, error) {
	return func(context.Context, string) (string, error) { return raw, err }
}

var (
	testJob = match.JobRecord{
		ID:             "job-1",
		Title:          "Frontend Developer",
		RequiredSkills: []string{"React", "TypeScript"},
	}
	testCandidate = match.CandidateRecord{ID: "cand-a", SkillCategory: "React"}
)

func TestEvaluateUsesAIResponse(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{respond: respondWith("```json\n"+validResponse+"\n```", nil)}
	e := NewEvaluator(gen, nil, zap.NewNop(), Options{})

	r := e.Evaluate(context.Background(), testJob, testCandidate)

	if r.Origin != match.OriginAI || r.FallbackReason != match.KindNone {
		t.Fatalf("expected AI origin without fallback reason, got %q/%q", r.Origin, r.FallbackReason)
	}
	if r.Score != 72 || r.CandidateID != "cand-a" || r.JobID != "job-1" {
		t.Fatalf("unexpected result: %+v", r)
	}
	if r.Weaknesses == nil {
		t.Fatalf("expected empty, non-nil weaknesses")
	}
	if gen.callCount() != 1 {
		t.Fatalf("expected exactly one external call, got %d", gen.callCount())
	}
	if !strings.Contains(gen.lastPrompt, "Skill category: React") {
		t.Fatalf("expected candidate fields in prompt, got:\n%s", gen.lastPrompt)
	}
	if gen.lastFormat != FormatInstructions {
		t.Fatalf("expected format instructions to be sent")
	}
}

func TestEvaluateFallsBackOnFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		respond func(context.Context, string) (string, error)
		kind    match.ErrorKind
		level   zapcore.Level
	}{
		{
			name:    "schema mismatch",
			respond: respondWith(`{"score":"high"}`, nil),
			kind:    match.KindSchemaMismatch,
			level:   zapcore.WarnLevel,
		},
		{
			name:    "transport error",
			respond: respondWith("", errors.New("connection refused")),
			kind:    match.KindTransport,
			level:   zapcore.DebugLevel,
		},
		{
			name: "timeout honoured by generator",
			respond: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
			kind:  match.KindUpstreamTimeout,
			level: zapcore.WarnLevel,
		},
		{
			name: "timeout with opaque generator error",
			respond: func(ctx context.Context, _ string) (string, error) {
				<-ctx.Done()
				return "", errors.New("request canceled")
			},
			kind:  match.KindUpstreamTimeout,
			level: zapcore.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, observed := observer.New(zapcore.DebugLevel)
			gen := &stubGenerator{respond: tt.respond}
			e := NewEvaluator(gen, nil, zap.New(core), Options{CallTimeout: 20 * time.Millisecond})

			r := e.Evaluate(context.Background(), testJob, testCandidate)

			want := heuristic.Default().Score(testJob, testCandidate)
			if r.Origin != match.OriginHeuristic || r.FallbackReason != tt.kind {
				t.Fatalf("expected heuristic/%q, got %q/%q", tt.kind, r.Origin, r.FallbackReason)
			}
			if r.Score != want.Score {
				t.Fatalf("expected heuristic score %v, got %v", want.Score, r.Score)
			}
			if gen.callCount() != 1 {
				t.Fatalf("expected one external call, got %d", gen.callCount())
			}

			if n := observed.FilterLevelExact(zapcore.WarnLevel).Len(); tt.level != zapcore.WarnLevel && n != 0 {
				t.Fatalf("unreachable service must not be warned per item, got %d warnings", n)
			}
			entries := observed.FilterLevelExact(tt.level).FilterField(zap.String("kind", string(tt.kind))).All()
			if len(entries) != 1 {
				t.Fatalf("expected one %s entry, got %d", tt.level, len(entries))
			}
			fields := entries[0].ContextMap()
			if fields[logger.FieldCandidateID] != "cand-a" {
				t.Fatalf("expected warning to carry candidate id, got %v", fields)
			}
			if fields["kind"] != string(tt.kind) {
				t.Fatalf("expected kind %q in log, got %v", tt.kind, fields["kind"])
			}
			if fields[logger.FieldProvider] != "stub" {
				t.Fatalf("expected provider field, got %v", fields)
			}
		})
	}
}

func TestEvaluateFallbackOnlyMakesNoCalls(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	gen := &stubGenerator{respond: respondWith(validResponse, nil)}

	for name, e := range map[string]*Evaluator{
		"no generator":     NewEvaluator(nil, nil, zap.New(core), Options{}),
		"development mode": NewEvaluator(gen, nil, zap.New(core), Options{FallbackOnly: true}),
	} {
		if e.Available() {
			t.Fatalf("%s: expected evaluator to be unavailable", name)
		}
		r := e.Evaluate(context.Background(), testJob, testCandidate)
		if r.FallbackReason != match.KindExternalServiceUnavailable || r.Origin != match.OriginHeuristic {
			t.Fatalf("%s: unexpected tags %q/%q", name, r.Origin, r.FallbackReason)
		}
	}

	if gen.callCount() != 0 {
		t.Fatalf("expected no external calls, got %d", gen.callCount())
	}
	if n := observed.FilterLevelExact(zapcore.WarnLevel).Len(); n != 0 {
		t.Fatalf("unavailability must not be logged per item, got %d warnings", n)
	}
}

func TestEvaluateResume(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{respond: respondWith(validResponse, nil)}
	e := NewEvaluator(gen, nil, zap.NewNop(), Options{})

	blank := e.EvaluateResume(context.Background(), testJob, "  \n ")
	if blank.Origin != match.OriginInsufficientData || blank.Score != 0 || len(blank.Reasons) == 0 {
		t.Fatalf("unexpected blank résumé result: %+v", blank)
	}
	if gen.callCount() != 0 {
		t.Fatalf("blank résumé must not reach the service")
	}

	r := e.EvaluateResume(context.Background(), testJob, "React developer")
	if r.Origin != match.OriginAI || r.Score != 72 {
		t.Fatalf("unexpected résumé result: %+v", r)
	}
	if !strings.Contains(gen.lastPrompt, "React developer") {
		t.Fatalf("expected résumé text in prompt")
	}

	broken := NewEvaluator(&stubGenerator{respond: respondWith("nope", nil)}, nil, zap.NewNop(), Options{})
	fb := broken.EvaluateResume(context.Background(), testJob, "React developer")
	if fb.FallbackReason != match.KindSchemaMismatch {
		t.Fatalf("expected schema mismatch fallback, got %q", fb.FallbackReason)
	}
	if want := heuristic.Default().ScoreResume(testJob, "React developer"); fb.Score != want.Score {
		t.Fatalf("expected heuristic résumé score %v, got %v", want.Score, fb.Score)
	}
}
