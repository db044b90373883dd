// Package people scores user-to-user affinity from profile signals. It makes no external calls.
package people

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ablejobs/matchcore/internal/match"
	"github.com/ablejobs/matchcore/internal/ranking"
)

// Weights are the maximum points per component. Their sum must not exceed 100.
type Weights struct {
	Interests    float64 `mapstructure:"interests"`
	Activity     float64 `mapstructure:"activity"`
	Goal         float64 `mapstructure:"goal"`
	Completeness float64 `mapstructure:"completeness"`
}

func DefaultWeights() Weights {
	return Weights{Interests: 50, Activity: 20, Goal: 15, Completeness: 15}
}

func (w Weights) Validate() error {
	if w.Interests < 0 || w.Activity < 0 || w.Goal < 0 || w.Completeness < 0 {
		return errors.New("people weights must not be negative")
	}
	if sum := w.Interests + w.Activity + w.Goal + w.Completeness; sum > 100 {
		return fmt.Errorf("people weights add up to %.1f, more than 100", sum)
	}
	return nil
}

const (
	// activitySaturation is the activity count that earns full activity credit.
	activitySaturation = 10
	minBioLength       = 20
)

type Matcher struct {
	weights Weights
}

func NewMatcher(w Weights) (*Matcher, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{weights: w}, nil
}

// ScoreAll scores every profile in others from self's point of view, highest first.
// self is skipped if it appears in others. The score is not symmetric: the shared-interest
// ratio is relative to self's interests and completeness is the other profile's.
func (m *Matcher) ScoreAll(self match.UserProfile, others []match.UserProfile) []match.CompatibilityResult {
	results := make([]match.CompatibilityResult, 0, len(others))
	for _, other := range others {
		if other.ID == self.ID {
			continue
		}
		results = append(results, m.Score(self, other))
	}
	return ranking.Rank(results)
}

func (m *Matcher) Score(self, other match.UserProfile) match.CompatibilityResult {
	shared := sharedInterests(self.Interests, other.Interests)

	interestRatio := float64(len(shared)) / math.Max(float64(len(normalizedSet(self.Interests))), 1)
	activity := float64(other.ActivityCount) / activitySaturation

	sum := clamp01(interestRatio)*m.weights.Interests +
		clamp01(activity)*m.weights.Activity +
		clamp01(goalSimilarity(self.Goal, other.Goal))*m.weights.Goal +
		clamp01(completeness(other))*m.weights.Completeness

	return match.CompatibilityResult{
		SelfID:          self.ID,
		OtherID:         other.ID,
		Score:           match.ClampScore(math.Round(sum)),
		SharedInterests: shared,
	}
}

// sharedInterests returns self's tags that other also has, compared case-insensitively, in self's order.
func sharedInterests(self, other []string) []string {
	theirs := normalizedSet(other)
	shared := []string{}
	seen := make(map[string]struct{})
	for _, tag := range self {
		key := normalizeTag(tag)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := theirs[key]; ok {
			shared = append(shared, strings.TrimSpace(tag))
		}
	}
	return shared
}

func normalizedSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if key := normalizeTag(tag); key != "" {
			set[key] = struct{}{}
		}
	}
	return set
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// goalSimilarity is the Jaccard index of the two goals' word sets, 0 when either is empty.
func goalSimilarity(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}

	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	return float64(inter) / float64(union)
}

func words(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[w] = struct{}{}
	}
	return set
}

func completeness(p match.UserProfile) float64 {
	var credit float64
	if strings.TrimSpace(p.DisplayName) != "" {
		credit += 0.2
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Bio)) > minBioLength {
		credit += 0.3
	}
	if strings.TrimSpace(p.Goal) != "" {
		credit += 0.2
	}
	if len(normalizedSet(p.Interests)) > 0 {
		credit += 0.2
	}
	if strings.TrimSpace(p.ImageURL) != "" {
		credit += 0.1
	}
	return credit
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
