package heuristic

import (
	"errors"
	"fmt"
	"strings"
)

// Weights are the maximum points each component contributes. They must not add up to more than 100.
type Weights struct {
	Skills        float64 `mapstructure:"skills"`
	Requirements  float64 `mapstructure:"requirements"`
	Accessibility float64 `mapstructure:"accessibility"`
}

func DefaultWeights() Weights {
	return Weights{Skills: 50, Requirements: 30, Accessibility: 20}
}

func (w Weights) Validate() error {
	if w.Skills < 0 || w.Requirements < 0 || w.Accessibility < 0 {
		return errors.New("heuristic weights must not be negative")
	}
	sum := w.Skills + w.Requirements + w.Accessibility
	if sum <= 0 {
		return errors.New("heuristic weights must not all be zero")
	}
	if sum > 100 {
		return fmt.Errorf("heuristic weights add up to %.1f, more than 100", sum)
	}
	return nil
}

// ReasonPool holds the explanation templates. {matched}, {total} and {category} are substituted.
type ReasonPool struct {
	SkillsMatched          string `mapstructure:"skills-matched"`
	NoSkillsListed         string `mapstructure:"no-skills-listed"`
	RequirementsCovered    string `mapstructure:"requirements-covered"`
	AccessibilityAccepted  string `mapstructure:"accessibility-accepted"`
	AccessibilityNotListed string `mapstructure:"accessibility-not-listed"`
	AccessibilityUnknown   string `mapstructure:"accessibility-unknown"`
	AccessibilityOpen      string `mapstructure:"accessibility-open"`

	StrongRecommendation   string `mapstructure:"strong-recommendation"`
	PossibleRecommendation string `mapstructure:"possible-recommendation"`
	WeakRecommendation     string `mapstructure:"weak-recommendation"`
}

func DefaultReasons() ReasonPool {
	return ReasonPool{
		SkillsMatched:          "{matched} of {total} required skills found in the profile",
		NoSkillsListed:         "The job lists no required skills",
		RequirementsCovered:    "{matched} of {total} requirement keywords appear in the résumé",
		AccessibilityAccepted:  "Accessibility category {category} is accepted for this role",
		AccessibilityNotListed: "Accessibility category {category} is not among the accepted categories",
		AccessibilityUnknown:   "Accessibility category is not stated in the profile",
		AccessibilityOpen:      "The job does not restrict accessibility categories",

		StrongRecommendation:   "Strong match: recommend moving to interview.",
		PossibleRecommendation: "Possible match: review the profile in detail.",
		WeakRecommendation:     "Weak match: consider other candidates first.",
	}
}

// withDefaults fills blank templates from DefaultReasons, so a partial config section is enough.
func (p ReasonPool) withDefaults() ReasonPool {
	d := DefaultReasons()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&p.SkillsMatched, d.SkillsMatched)
	fill(&p.NoSkillsListed, d.NoSkillsListed)
	fill(&p.RequirementsCovered, d.RequirementsCovered)
	fill(&p.AccessibilityAccepted, d.AccessibilityAccepted)
	fill(&p.AccessibilityNotListed, d.AccessibilityNotListed)
	fill(&p.AccessibilityUnknown, d.AccessibilityUnknown)
	fill(&p.AccessibilityOpen, d.AccessibilityOpen)
	fill(&p.StrongRecommendation, d.StrongRecommendation)
	fill(&p.PossibleRecommendation, d.PossibleRecommendation)
	fill(&p.WeakRecommendation, d.WeakRecommendation)
	return p
}

func render(template string, matched, total int, category string) string {
	return strings.NewReplacer(
		"{matched}", fmt.Sprint(matched),
		"{total}", fmt.Sprint(total),
		"{category}", category,
	).Replace(template)
}
