// Package heuristic scores a candidate against a job from token overlap alone.
// It never performs I/O, and the same inputs always give the same result.
package heuristic

import (
	"math"
	"strings"

	"github.com/ablejobs/matchcore/internal/match"
)

// neutral is the credit given to a component when the job states nothing to compare against.
const neutral = 0.5

type Scorer struct {
	weights Weights
	reasons ReasonPool
}

func New(weights Weights, reasons ReasonPool) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights, reasons: reasons.withDefaults()}, nil
}

// Default returns a scorer with the built-in weights and reasons.
func Default() *Scorer {
	return &Scorer{weights: DefaultWeights(), reasons: DefaultReasons()}
}

// ScoreResume scores free résumé text. It is Score with a candidate that only has résumé content.
func (s *Scorer) ScoreResume(job match.JobRecord, resumeText string) match.MatchResult {
	return s.Score(job, match.CandidateRecord{ResumeContent: resumeText})
}

func (s *Scorer) Score(job match.JobRecord, c match.CandidateRecord) match.MatchResult {
	result := match.MatchResult{
		CandidateID: c.ID,
		JobID:       job.ID,
		Reasons:     []string{},
		Strengths:   []string{},
		Weaknesses:  []string{},
		Origin:      match.OriginHeuristic,
	}

	candidateTokens := tokenSet(c.ResumeContent, c.SkillCategory)

	skills := s.skillComponent(job, c, candidateTokens, &result)
	requirements := s.requirementComponent(job, candidateTokens, &result)
	accessibility := s.accessibilityComponent(job, c, &result)

	sum := skills*s.weights.Skills + requirements*s.weights.Requirements + accessibility*s.weights.Accessibility
	result.Score = match.ClampScore(math.Round(sum))
	result.Recommendation = s.recommend(result.Score)

	return result
}

func (s *Scorer) skillComponent(job match.JobRecord, c match.CandidateRecord, tokens map[string]struct{}, r *match.MatchResult) float64 {
	skills := distinct(job.RequiredSkills)
	if len(skills) == 0 {
		r.Reasons = append(r.Reasons, s.reasons.NoSkillsListed)
		return neutral
	}

	tag := strings.TrimSpace(c.SkillCategory)
	matched := 0
	for _, skill := range skills {
		if strings.EqualFold(skill, tag) || containsAll(tokens, tokenize(skill)) {
			matched++
			r.Strengths = append(r.Strengths, "Has required skill: "+skill)
			continue
		}
		r.Weaknesses = append(r.Weaknesses, "Missing required skill: "+skill)
	}

	r.Reasons = append(r.Reasons, render(s.reasons.SkillsMatched, matched, len(skills), ""))
	return float64(matched) / float64(len(skills))
}

func (s *Scorer) requirementComponent(job match.JobRecord, tokens map[string]struct{}, r *match.MatchResult) float64 {
	texts := make([]string, 0, len(job.Requirements)+len(job.Responsibilities))
	texts = append(texts, job.Requirements...)
	texts = append(texts, job.Responsibilities...)

	kws := keywords(texts...)
	if len(kws) == 0 {
		return neutral
	}

	matched := 0
	for _, kw := range kws {
		if _, ok := tokens[kw]; ok {
			matched++
		}
	}

	r.Reasons = append(r.Reasons, render(s.reasons.RequirementsCovered, matched, len(kws), ""))
	return float64(matched) / float64(len(kws))
}

func (s *Scorer) accessibilityComponent(job match.JobRecord, c match.CandidateRecord, r *match.MatchResult) float64 {
	accepted := distinct(job.AcceptedCategories)
	if len(accepted) == 0 {
		r.Reasons = append(r.Reasons, s.reasons.AccessibilityOpen)
		return neutral
	}

	category := strings.TrimSpace(c.AccessibilityCategory)
	if category == "" {
		r.Reasons = append(r.Reasons, s.reasons.AccessibilityUnknown)
		return 0
	}

	for _, a := range accepted {
		if strings.EqualFold(a, category) {
			r.Reasons = append(r.Reasons, render(s.reasons.AccessibilityAccepted, 0, 0, category))
			r.Strengths = append(r.Strengths, "Accessibility category is accepted: "+category)
			return 1
		}
	}

	r.Reasons = append(r.Reasons, render(s.reasons.AccessibilityNotListed, 0, 0, category))
	r.Weaknesses = append(r.Weaknesses, "Accessibility category is not accepted: "+category)
	return 0
}

func (s *Scorer) recommend(score float64) string {
	switch {
	case score >= 75:
		return s.reasons.StrongRecommendation
	case score >= 50:
		return s.reasons.PossibleRecommendation
	default:
		return s.reasons.WeakRecommendation
	}
}

// distinct trims values and drops blanks and case-insensitive duplicates, keeping first-seen order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
