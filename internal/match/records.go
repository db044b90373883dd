package match

import "strings"

// JobStatus is the publication state of a job posting.
type JobStatus string

const (
	JobActive   JobStatus = "Active"
	JobInactive JobStatus = "Inactive"
	JobClosed   JobStatus = "Closed"
	JobDraft    JobStatus = "Draft"
)

// JobRecord is a job posting as stored in the document store.
type JobRecord struct {
	ID                 string    `mapstructure:"id" json:"id"`
	Title              string    `mapstructure:"title" json:"title"`
	Description        string    `mapstructure:"description" json:"description"`
	Requirements       []string  `mapstructure:"requirements" json:"requirements"`
	Responsibilities   []string  `mapstructure:"responsibilities" json:"responsibilities"`
	RequiredSkills     []string  `mapstructure:"requiredSkills" json:"requiredSkills"`
	AcceptedCategories []string  `mapstructure:"acceptedCategories" json:"acceptedCategories"`
	Status             JobStatus `mapstructure:"status" json:"status"`
}

// CandidateRecord is an applicant profile. Every field except ID may be empty.
type CandidateRecord struct {
	ID                    string `mapstructure:"id" json:"id"`
	DisplayName           string `mapstructure:"displayName" json:"displayName"`
	ResumeContent         string `mapstructure:"resumeContent" json:"resumeContent"`
	SkillCategory         string `mapstructure:"skillCategory" json:"skillCategory"`
	AccessibilityCategory string `mapstructure:"accessibilityCategory" json:"accessibilityCategory"`
}

// HasProfileData reports whether the candidate carries anything a scorer can use.
// A display name alone is not enough.
func (c CandidateRecord) HasProfileData() bool {
	return strings.TrimSpace(c.ResumeContent) != "" ||
		strings.TrimSpace(c.SkillCategory) != "" ||
		strings.TrimSpace(c.AccessibilityCategory) != ""
}

// UserProfile is the social profile used for people matching.
type UserProfile struct {
	ID            string   `mapstructure:"id" json:"id"`
	DisplayName   string   `mapstructure:"displayName" json:"displayName"`
	Bio           string   `mapstructure:"bio" json:"bio"`
	Goal          string   `mapstructure:"goal" json:"goal"`
	Interests     []string `mapstructure:"interests" json:"interests"`
	ActivityCount int      `mapstructure:"activityCount" json:"activityCount"`
	ImageURL      string   `mapstructure:"imageUrl" json:"imageUrl"`
}
