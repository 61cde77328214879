package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents a SkillMatch user profile
type User struct {
	ID          uuid.UUID `json:"id"`
	FirebaseUID string    `json:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Headline    string    `json:"headline"`
	Location    string    `json:"location"`
	GithubLogin string    `json:"githubLogin"`
	BlogURL     string    `json:"blogUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ── Skills ─────────────────────────────────────────────

// Skill sources
const (
	SourceCV     = "cv"
	SourceGithub = "github"
	SourceBlog   = "blog"
	SourceReview = "review"
	SourceManual = "manual"
)

func ValidSource(s string) bool {
	switch s {
	case SourceCV, SourceGithub, SourceBlog, SourceReview, SourceManual:
		return true
	}
	return false
}

// Proficiency levels
const (
	ProficiencyBeginner     = "beginner"
	ProficiencyIntermediate = "intermediate"
	ProficiencyAdvanced     = "advanced"
	ProficiencyExpert       = "expert"
)

// ExtractedSkill is one skill record produced by a skill source provider
type ExtractedSkill struct {
	Name             string  `json:"name" validate:"required,max=100"`
	Category         string  `json:"category" validate:"max=60"`
	Confidence       float64 `json:"confidence" validate:"gte=0,lte=1"`
	IsExplicit       bool    `json:"isExplicit"`
	Evidence         string  `json:"evidence"`
	ProficiencyLevel string  `json:"proficiencyLevel" validate:"omitempty,oneof=beginner intermediate advanced expert"`
}

// UserSkill is a stored skill belonging to a user
type UserSkill struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Confidence       float64   `json:"confidence"`
	IsExplicit       bool      `json:"isExplicit"`
	Evidence         string    `json:"evidence,omitempty"`
	ProficiencyLevel string    `json:"proficiencyLevel"`
	Source           string    `json:"source"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SkillNames flattens skill records into the name list the matcher consumes
func SkillNames(skills []UserSkill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

// ── Jobs ───────────────────────────────────────────────

// Job represents a job posting tracked by a user
type Job struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Title           string    `json:"title" validate:"required,max=200"`
	Company         string    `json:"company" validate:"required,max=200"`
	Location        string    `json:"location"`
	Description     string    `json:"description"`
	RequiredSkills  []string  `json:"requiredSkills" validate:"max=100,dive,max=100"`
	PreferredSkills []string  `json:"preferredSkills" validate:"max=100,dive,max=100"`
	ApplyURL        string    `json:"applyUrl,omitempty" validate:"omitempty,url"`
	MatchScore      int       `json:"matchScore"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Application represents a job application pipeline entry
type Application struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	JobID     uuid.UUID  `json:"jobId"`
	Status    string     `json:"status"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Valid application statuses
const (
	StatusSaved     = "saved"
	StatusApplied   = "applied"
	StatusScreening = "screening"
	StatusInterview = "interview"
	StatusOffer     = "offer"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusSaved, StatusApplied, StatusScreening, StatusInterview,
		StatusOffer, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

// StatusHistory tracks application stage changes for timeline
type StatusHistory struct {
	ID            uuid.UUID `json:"id"`
	ApplicationID uuid.UUID `json:"applicationId"`
	FromStatus    string    `json:"fromStatus"`
	ToStatus      string    `json:"toStatus"`
	ChangedAt     time.Time `json:"changedAt"`
	Note          string    `json:"note,omitempty"`
}

// JobMatch is a persisted match computation for a user and job
type JobMatch struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	JobID          uuid.UUID `json:"jobId"`
	MatchScore     int       `json:"matchScore"`
	MatchingSkills []string  `json:"matchingSkills"`
	MissingSkills  []string  `json:"missingSkills"`
	CreatedAt      time.Time `json:"createdAt"`
}
