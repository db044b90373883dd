package match

import "math"

// Origin tells where a MatchResult score came from.
type Origin string

const (
	// OriginAI marks a score returned by the text-generation service and accepted by validation.
	OriginAI Origin = "ai"
	// OriginHeuristic marks a score computed by the fallback scorer. FallbackReason says why.
	OriginHeuristic Origin = "heuristic"
	// OriginInsufficientData marks a zero score given without scoring at all.
	OriginInsufficientData Origin = "insufficient_data"
)

const InsufficientDataReason = "insufficient data"

// MatchResult is the fit of one candidate (or résumé) against one job.
type MatchResult struct {
	CandidateID    string    `json:"candidateId"`
	JobID          string    `json:"jobId"`
	Score          float64   `json:"score"`
	Reasons        []string  `json:"reasons"`
	Strengths      []string  `json:"strengths"`
	Weaknesses     []string  `json:"weaknesses"`
	Recommendation string    `json:"recommendation"`
	Origin         Origin    `json:"origin"`
	FallbackReason ErrorKind `json:"fallbackReason,omitempty"`
}

// Percent returns the score, so results can be ranked and filtered.
func (r MatchResult) Percent() float64 { return r.Score }

// IsFallback reports whether the result was produced without an accepted AI response.
func (r MatchResult) IsFallback() bool { return r.Origin != OriginAI }

// Normalize replaces nil lists with empty ones and clamps the score into [0,100].
func (r MatchResult) Normalize() MatchResult {
	if r.Reasons == nil {
		r.Reasons = []string{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Weaknesses == nil {
		r.Weaknesses = []string{}
	}
	r.Score = ClampScore(r.Score)
	return r
}

// InsufficientData is the short-circuit result for a candidate without profile data. The origin
// alone says why; FallbackReason is only set on heuristic results.
func InsufficientData(jobID, candidateID string) MatchResult {
	return MatchResult{
		CandidateID:    candidateID,
		JobID:          jobID,
		Score:          0,
		Reasons:        []string{InsufficientDataReason},
		Strengths:      []string{},
		Weaknesses:     []string{},
		Recommendation: "Not enough profile information to assess this candidate.",
		Origin:         OriginInsufficientData,
	}
}

// CompatibilityResult is the affinity of Other as seen from Self.
type CompatibilityResult struct {
	SelfID          string   `json:"selfId"`
	OtherID         string   `json:"otherId"`
	Score           float64  `json:"score"`
	SharedInterests []string `json:"sharedInterests"`
}

func (r CompatibilityResult) Percent() float64 { return r.Score }

// ClampScore bounds a score to [0,100]. NaN becomes 0.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
