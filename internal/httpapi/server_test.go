package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/match"
	"github.com/ablejobs/matchcore/internal/service"
	"github.com/ablejobs/matchcore/internal/store"
)

type stubScorer struct {
	optCount   int
	resumeText string
}

func (s *stubScorer) ScoreApplicantsForJob(_ context.Context, jobID string, opts ...service.Option) ([]match.MatchResult, error) {
	if jobID != "job-1" {
		return nil, fmt.Errorf("loading job: %w", store.ErrNotFound)
	}
	s.optCount = len(opts)
	return []match.MatchResult{
		match.MatchResult{CandidateID: "cand-a", JobID: jobID, Score: 72, Origin: match.OriginAI}.Normalize(),
	}, nil
}

func (s *stubScorer) ScoreResumeForJob(_ context.Context, resumeText, jobID string) (match.MatchResult, error) {
	s.resumeText = resumeText
	return match.MatchResult{JobID: jobID, Score: 40, Origin: match.OriginHeuristic}.Normalize(), nil
}

func (s *stubScorer) ScorePeopleMatches(_ context.Context, userID string) ([]match.CompatibilityResult, error) {
	return nil, fmt.Errorf("database exploded for %s", userID)
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	DevMessage string          `json:"dev_message"`
	Meta       map[string]any  `json:"meta"`
	Data       json.RawMessage `json:"data"`
}

func do(t *testing.T, scorer Scorer, req *http.Request) (int, envelope) {
	t.Helper()

	app := NewApp(scorer, zap.NewNop(), Options{Verbose: true})
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return resp.StatusCode, env
}

func TestApplicantScores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		target  string
		code    int
		options int
	}{
		{name: "no threshold", target: "/jobs/job-1/applicants/scores", code: http.StatusOK},
		{name: "threshold", target: "/jobs/job-1/applicants/scores?minPercent=55.5", code: http.StatusOK, options: 1},
		{name: "bad threshold", target: "/jobs/job-1/applicants/scores?minPercent=lots", code: http.StatusBadRequest},
		{name: "out of range threshold", target: "/jobs/job-1/applicants/scores?minPercent=101", code: http.StatusBadRequest},
		{name: "negative threshold", target: "/jobs/job-1/applicants/scores?minPercent=-5", code: http.StatusBadRequest},
		{name: "NaN threshold", target: "/jobs/job-1/applicants/scores?minPercent=NaN", code: http.StatusBadRequest},
		{name: "infinite threshold", target: "/jobs/job-1/applicants/scores?minPercent=Inf", code: http.StatusBadRequest},
		{name: "unknown job", target: "/jobs/job-9/applicants/scores", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			scorer := &stubScorer{}
			code, env := do(t, scorer, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if code != tt.code {
				t.Fatalf("expected status %d, got %d (%+v)", tt.code, code, env)
			}
			if code != http.StatusOK {
				if env.Success {
					t.Fatalf("expected unsuccessful envelope")
				}
				return
			}

			var results []match.MatchResult
			if err := json.Unmarshal(env.Data, &results); err != nil {
				t.Fatalf("decode data: %v", err)
			}
			if len(results) != 1 || results[0].CandidateID != "cand-a" || results[0].Score != 72 {
				t.Fatalf("unexpected results %+v", results)
			}
			if scorer.optCount != tt.options {
				t.Fatalf("expected %d options, got %d", tt.options, scorer.optCount)
			}
			if env.Meta["count"] != float64(1) {
				t.Fatalf("unexpected meta %v", env.Meta)
			}
		})
	}
}

func TestResumeScore(t *testing.T) {
	t.Parallel()

	scorer := &stubScorer{}
	req := httptest.NewRequest(http.MethodPost, "/jobs/job-1/resume-score", strings.NewReader(`{"resumeText":"React developer"}`))
	req.Header.Set("Content-Type", "application/json")

	code, env := do(t, scorer, req)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected response %d %+v", code, env)
	}
	if scorer.resumeText != "React developer" {
		t.Fatalf("expected résumé text to reach the scorer, got %q", scorer.resumeText)
	}

	var result match.MatchResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.JobID != "job-1" || result.Score != 40 {
		t.Fatalf("unexpected result %+v", result)
	}

	bad := httptest.NewRequest(http.MethodPost, "/jobs/job-1/resume-score", strings.NewReader(`{`))
	bad.Header.Set("Content-Type", "application/json")
	if code, _ := do(t, scorer, bad); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", code)
	}
}

func TestPeopleMatchesInternalError(t *testing.T) {
	t.Parallel()

	code, env := do(t, &stubScorer{}, httptest.NewRequest(http.MethodGet, "/users/u1/people-matches", nil))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if env.Message != "internal server error" || !strings.Contains(env.DevMessage, "database exploded") {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	code, env := do(t, &stubScorer{}, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if code != http.StatusOK || !env.Success {
		t.Fatalf("unexpected health response %d %+v", code, env)
	}
}
