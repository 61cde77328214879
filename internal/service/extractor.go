package service

import (
	"context"
	"fmt"

	"github.com/yourusername/skillmatch-api/internal/model"
)

// SkillExtractor turns free text from one skill source into skill records
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, source, text string) ([]model.ExtractedSkill, error)
}

// PostingParser pulls structured fields out of a raw job posting
type PostingParser interface {
	ParsePosting(ctx context.Context, text string) (*ParsedPosting, error)
}

// ParsedPosting is a draft job extracted from a posting, not yet saved
type ParsedPosting struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"requiredSkills"`
	PreferredSkills []string `json:"preferredSkills"`
	ApplyURL        string   `json:"applyUrl"`
}

// maxPromptChars caps text sent to a model
const maxPromptChars = 50000

const extractSystemPrompt = `You extract professional skills from text about a single person.

Rules:
- Return each distinct skill once, using its common name ("PostgreSQL", "Kubernetes", "Go").
- Use atomic names. No sentences, no parenthetical remarks.
- confidence is 0..1: how sure you are the person actually has the skill.
- isExplicit is true when the text names the skill directly, false when you inferred it.
- evidence is a short quote or paraphrase that supports the skill.
- category is one of: language, framework, database, cloud, tool, practice, domain, soft.
- proficiencyLevel is beginner, intermediate, advanced, expert, or empty when unknown.
- Do not invent skills that the text does not support.`

const postingSystemPrompt = `You are a job posting parser. Extract structured data from job postings.

Respond with ONLY a JSON object (no markdown, no explanation) with these fields:
{
  "title": "Job title",
  "company": "Company name",
  "location": "Location (include Remote if applicable)",
  "description": "A 2-4 sentence summary of the role",
  "requiredSkills": ["skill1", "skill2"],
  "preferredSkills": ["skill1", "skill2"],
  "applyUrl": "Application URL if found, empty string if not"
}

Rules:
- Extract only what's explicitly stated. Don't invent data.
- Separate required skills from preferred / nice-to-have skills.
- Skills are atomic keywords ("Go", "Kafka"), never sentences.
- If a field isn't present, use an empty string or empty array.`

// sourceInstructions tells the model what kind of text it is reading
var sourceInstructions = map[string]string{
	model.SourceCV:     "The following is the text of a CV / resume.",
	model.SourceGithub: "The following summarizes a GitHub account: repositories, languages, topics, and descriptions. Weight languages by how much code exists.",
	model.SourceBlog:   "The following is a technical blog post written by the person.",
	model.SourceReview: "The following is a performance review of the person. Prefer skills the reviewer credits them with.",
}

func extractUserPrompt(source, text string) (string, error) {
	intro, ok := sourceInstructions[source]
	if !ok {
		return "", fmt.Errorf("unsupported skill source %q", source)
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	return intro + "\n\n" + text, nil
}
