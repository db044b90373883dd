package ai

import (
	"strings"

	_ "embed"

	"github.com/ablejobs/matchcore/internal/match"
)

//go:embed prompt.md
var promptTemplate string

// FormatInstructions describes the only response shape ParseAssessment accepts.
const FormatInstructions = `Respond with one JSON object and nothing else. No markdown, no commentary.
The object must have exactly these fields:
- "score": number from 0 to 100 inclusive, the overall fit of the candidate for the job
- "reasons": array of strings, the main factors behind the score
- "strengths": array of strings, what the candidate brings to this job
- "weaknesses": array of strings, gaps against the job requirements
- "recommendation": string, one sentence for the hiring team
Use an empty array when a list has nothing to say.`

// Prompt is what a TextGenerator receives for one evaluation.
type Prompt struct {
	Text               string
	FormatInstructions string
}

// BuildCandidatePrompt embeds every job field and every candidate field.
func BuildCandidatePrompt(job match.JobRecord, c match.CandidateRecord) Prompt {
	var b strings.Builder
	b.WriteString("ID: " + line(c.ID) + "\n")
	b.WriteString("Name: " + line(c.DisplayName) + "\n")
	b.WriteString("Skill category: " + line(c.SkillCategory) + "\n")
	b.WriteString("Accessibility category: " + line(c.AccessibilityCategory) + "\n")
	b.WriteString("Résumé:\n<<<\n" + block(c.ResumeContent) + "\n>>>")
	return render(job, b.String())
}

// BuildResumePrompt embeds every job field and raw résumé text.
func BuildResumePrompt(job match.JobRecord, resumeText string) Prompt {
	return render(job, "Résumé:\n<<<\n"+block(resumeText)+"\n>>>")
}

func render(job match.JobRecord, candidate string) Prompt {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_TITLE}}\n{{JOB_DESCRIPTION}}\n\nCandidate:\n{{CANDIDATE}}"
	}

	text := strings.NewReplacer(
		"{{JOB_ID}}", line(job.ID),
		"{{JOB_TITLE}}", line(job.Title),
		"{{JOB_STATUS}}", line(string(job.Status)),
		"{{JOB_SKILLS}}", flatten(job.RequiredSkills),
		"{{JOB_REQUIREMENTS}}", flatten(job.Requirements),
		"{{JOB_RESPONSIBILITIES}}", flatten(job.Responsibilities),
		"{{JOB_CATEGORIES}}", flatten(job.AcceptedCategories),
		"{{JOB_DESCRIPTION}}", block(job.Description),
		"{{CANDIDATE}}", candidate,
	).Replace(template)

	return Prompt{Text: text, FormatInstructions: FormatInstructions}
}

// flatten joins list items with ", ". An empty or nil list gives "".
func flatten(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if item = line(item); item != "" {
			parts = append(parts, item)
		}
	}
	return strings.Join(parts, ", ")
}

// line collapses a value onto one line so it cannot start a new prompt section.
func line(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// block keeps free text as is, minus the delimiters that would close its section early.
func block(s string) string {
	s = strings.ReplaceAll(s, "<<<", "")
	s = strings.ReplaceAll(s, ">>>", "")
	return strings.TrimSpace(s)
}
