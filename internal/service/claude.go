package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yourusername/skillmatch-api/internal/model"
)

const (
	defaultClaudeModel = "claude-sonnet-4-5-20250929"
	claudeProvider     = "claude"
	skillsToolName     = "record_skills"
	providerAttempts   = 3
)

// ClaudeClient wraps the Anthropic Messages API
type ClaudeClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewClaudeClient(apiKey, baseURL, model string) *ClaudeClient {
	if model == "" {
		model = defaultClaudeModel
	}
	return &ClaudeClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// ── Anthropic API request/response types ──────────────

type claudeRequest struct {
	Model      string            `json:"model"`
	MaxTokens  int               `json:"max_tokens"`
	System     string            `json:"system,omitempty"`
	Messages   []claudeMessage   `json:"messages"`
	Tools      []claudeTool      `json:"tools,omitempty"`
	ToolChoice *claudeToolChoice `json:"tool_choice,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

type claudeToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type claudeResponse struct {
	Content []struct {
		Type  string          `json:"type"`
		Text  string          `json:"text"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// ── Skill extraction ──────────────────────────────────

// ExtractSkills forces a record_skills tool call so the model answers with
// schema-shaped JSON instead of prose.
func (c *ClaudeClient) ExtractSkills(ctx context.Context, source, text string) ([]model.ExtractedSkill, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("Claude API key not configured")
	}

	prompt, err := extractUserPrompt(source, text)
	if err != nil {
		return nil, err
	}

	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 4000,
		System:    extractSystemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: prompt}},
		Tools: []claudeTool{{
			Name:        skillsToolName,
			Description: "Record every skill found in the text.",
			InputSchema: json.RawMessage(skillsSchema),
		}},
		ToolChoice: &claudeToolChoice{Type: "tool", Name: skillsToolName},
	}

	return withRetry(ctx, providerAttempts, func() ([]model.ExtractedSkill, error) {
		resp, err := c.send(ctx, reqBody)
		if err != nil {
			return nil, err
		}
		for _, block := range resp.Content {
			if block.Type == "tool_use" && block.Name == skillsToolName {
				return decodeSkills(block.Input)
			}
		}
		return nil, &DecodeError{Errors: []FieldError{{Field: "(root)", Message: "no record_skills tool call in response"}}}
	})
}

// ── Parse job posting ─────────────────────────────────

// ParsePosting sends raw posting text to Claude for extraction
func (c *ClaudeClient) ParsePosting(ctx context.Context, text string) (*ParsedPosting, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("Claude API key not configured")
	}
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	reqBody := claudeRequest{
		Model:     c.model,
		MaxTokens: 1500,
		System:    postingSystemPrompt,
		Messages: []claudeMessage{{
			Role:    "user",
			Content: "Parse this job posting and return the JSON:\n\n" + text,
		}},
	}

	return withRetry(ctx, providerAttempts, func() (*ParsedPosting, error) {
		resp, err := c.send(ctx, reqBody)
		if err != nil {
			return nil, err
		}
		if len(resp.Content) == 0 {
			return nil, &ProviderError{Provider: claudeProvider, Kind: KindRetryable, Err: fmt.Errorf("empty response")}
		}

		raw := stripCodeFences(resp.Content[0].Text)
		var parsed ParsedPosting
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, &DecodeError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
		}
		return &parsed, nil
	})
}

// send posts one Messages API request and classifies failures
func (c *ClaudeClient) send(ctx context.Context, reqBody claudeRequest) (*claudeResponse, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/messages", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(claudeProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(claudeProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(claudeProvider, resp.StatusCode, body)
	}

	var claudeResp claudeResponse
	if err := json.Unmarshal(body, &claudeResp); err != nil {
		return nil, fmt.Errorf("parsing Claude response: %w", err)
	}

	log.Debug().
		Int("inputTokens", claudeResp.Usage.InputTokens).
		Int("outputTokens", claudeResp.Usage.OutputTokens).
		Str("stopReason", claudeResp.StopReason).
		Msg("Claude call complete")

	return &claudeResp, nil
}
