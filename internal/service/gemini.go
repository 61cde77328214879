package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourusername/skillmatch-api/internal/model"
	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiProvider     = "gemini"
)

// GeminiClient extracts skills through the Google GenAI SDK
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a client for the Gemini API backend. baseURL is
// optional and only overrides the API host.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}, nil
}

// geminiSkillsSchema mirrors skillsSchema in the SDK's schema types
var geminiSkillsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"skills": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":       {Type: genai.TypeString, Description: "Common name of the skill."},
					"category":   {Type: genai.TypeString},
					"confidence": {Type: genai.TypeNumber, Description: "0..1"},
					"isExplicit": {Type: genai.TypeBoolean},
					"evidence":   {Type: genai.TypeString},
					"proficiencyLevel": {
						Type: genai.TypeString,
						Enum: []string{"beginner", "intermediate", "advanced", "expert"},
					},
				},
				Required: []string{"name", "confidence", "isExplicit"},
			},
		},
	},
	Required: []string{"skills"},
}

var geminiPostingSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":           {Type: genai.TypeString},
		"company":         {Type: genai.TypeString},
		"location":        {Type: genai.TypeString},
		"description":     {Type: genai.TypeString},
		"requiredSkills":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"preferredSkills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"applyUrl":        {Type: genai.TypeString},
	},
	Required: []string{"title", "company"},
}

// ExtractSkills asks Gemini for JSON constrained by geminiSkillsSchema
func (g *GeminiClient) ExtractSkills(ctx context.Context, source, text string) ([]model.ExtractedSkill, error) {
	prompt, err := extractUserPrompt(source, text)
	if err != nil {
		return nil, err
	}

	return withRetry(ctx, providerAttempts, func() ([]model.ExtractedSkill, error) {
		raw, err := g.generateJSON(ctx, extractSystemPrompt, prompt, geminiSkillsSchema)
		if err != nil {
			return nil, err
		}
		return decodeSkills([]byte(raw))
	})
}

// ParsePosting extracts a draft job from raw posting text
func (g *GeminiClient) ParsePosting(ctx context.Context, text string) (*ParsedPosting, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	return withRetry(ctx, providerAttempts, func() (*ParsedPosting, error) {
		raw, err := g.generateJSON(ctx, postingSystemPrompt, text, geminiPostingSchema)
		if err != nil {
			return nil, err
		}
		var parsed ParsedPosting
		if err := json.Unmarshal([]byte(stripCodeFences(raw)), &parsed); err != nil {
			return nil, &DecodeError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
		}
		return &parsed, nil
	})
}

func (g *GeminiClient) generateJSON(ctx context.Context, system, prompt string, schema *genai.Schema) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	})
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Provider: geminiProvider, Kind: KindRetryable, Err: errors.New("no candidates in response")}
	}
	return resp.Text(), nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := KindTerminal
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			kind = KindRetryable
		}
		return &ProviderError{Provider: geminiProvider, Kind: kind, StatusCode: apiErr.Code, Err: err}
	}
	return transportError(geminiProvider, err)
}
