package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/drewhammond/folio-api/internal/schemas"
	"github.com/drewhammond/folio-api/internal/types"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"

	// openAICallTimeout bounds a single chat-completions call so a hung
	// backend cannot block the whole pipeline.
	openAICallTimeout = 120 * time.Second
)

// openAIPricing is the gpt-4o-mini rate table, USD per 1M tokens.
var openAIPricing = types.Pricing{InputCostPer1M: 0.15, OutputCostPer1M: 0.60}

// OpenAIProvider implements Provider against an OpenAI-compatible
// chat-completions endpoint.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	pricing    types.Pricing
	mock       bool
	httpClient *http.Client
}

// OpenAIOption customizes a provider at construction time.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIBaseURL points the provider at an alternate compatible
// endpoint (self-hosted gateways, test servers).
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(p *OpenAIProvider) { p.baseURL = baseURL }
}

// WithOpenAIModel overrides the default model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) { p.model = model }
}

// WithOpenAIMockMode enables the deterministic network-free path.
func WithOpenAIMockMode(mock bool) OpenAIOption {
	return func(p *OpenAIProvider) { p.mock = mock }
}

// NewOpenAIProvider creates an OpenAI-backed provider. The API key is
// required unless mock mode is enabled.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) (*OpenAIProvider, error) {
	p := &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    defaultOpenAIBaseURL,
		model:      defaultOpenAIModel,
		pricing:    openAIPricing,
		httpClient: &http.Client{Timeout: openAICallTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" && !p.mock {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return p, nil
}

// Model returns the configured model identifier.
func (p *OpenAIProvider) Model() string { return p.model }

// Type returns ProviderOpenAI.
func (p *OpenAIProvider) Type() ProviderType { return ProviderOpenAI }

// Pricing returns the provider's immutable rate table.
func (p *OpenAIProvider) Pricing() types.Pricing { return p.pricing }

// CalculateCost computes the USD cost of a usage record.
func (p *OpenAIProvider) CalculateCost(usage types.TokenUsage) float64 {
	return p.pricing.CostUSD(usage)
}

// GenerateResume produces tailored resume content.
func (p *OpenAIProvider) GenerateResume(ctx context.Context, opts GenerateOptions) (*ResumeResult, error) {
	if p.mock {
		return mockResume(opts, p.model), nil
	}

	system, user := buildResumePrompts(opts)
	text, usage, err := p.complete(ctx, system, user, "resume_content", schemas.ResumeContentSchema())
	if err != nil {
		return nil, fmt.Errorf("OpenAI resume generation failed: %w", err)
	}

	if err := schemas.ValidateResumeContent(text); err != nil {
		return nil, fmt.Errorf("OpenAI resume generation failed: %w", err)
	}

	var resume types.ResumeContent
	if err := json.Unmarshal([]byte(text), &resume); err != nil {
		return nil, fmt.Errorf("OpenAI resume generation failed: %w", err)
	}

	return &ResumeResult{Content: &resume, TokenUsage: usage, Model: p.model}, nil
}

// GenerateCoverLetter produces tailored cover letter content.
func (p *OpenAIProvider) GenerateCoverLetter(ctx context.Context, opts GenerateOptions) (*CoverLetterResult, error) {
	if p.mock {
		return mockCoverLetter(opts, p.model), nil
	}

	system, user := buildCoverLetterPrompts(opts)
	text, usage, err := p.complete(ctx, system, user, "cover_letter_content", schemas.CoverLetterContentSchema())
	if err != nil {
		return nil, fmt.Errorf("OpenAI cover letter generation failed: %w", err)
	}

	if err := schemas.ValidateCoverLetterContent(text); err != nil {
		return nil, fmt.Errorf("OpenAI cover letter generation failed: %w", err)
	}

	var letter types.CoverLetterContent
	if err := json.Unmarshal([]byte(text), &letter); err != nil {
		return nil, fmt.Errorf("OpenAI cover letter generation failed: %w", err)
	}

	return &CoverLetterResult{Content: &letter, TokenUsage: usage, Model: p.model}, nil
}

// chat-completions wire types

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type       string           `json:"type"`
	JSONSchema openAIJSONSchema `json:"json_schema"`
}

type openAIJSONSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type openAIRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	Temperature    float64              `json:"temperature"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// complete issues one schema-constrained chat completion with
// deterministic decoding and returns the raw JSON text plus token usage.
func (p *OpenAIProvider) complete(ctx context.Context, system, user, schemaName, schemaJSON string) (string, types.TokenUsage, error) {
	var zero types.TokenUsage

	payload := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
		ResponseFormat: openAIResponseFormat{
			Type: "json_schema",
			JSONSchema: openAIJSONSchema{
				Name:   schemaName,
				Strict: true,
				Schema: json.RawMessage(schemaJSON),
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", zero, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", zero, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", zero, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", zero, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", zero, fmt.Errorf("backend returned %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", zero, fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", zero, fmt.Errorf("no choices in response")
	}

	text := cleanJSONBlock(parsed.Choices[0].Message.Content)

	usage := types.NewTokenUsage(parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	if parsed.Usage.TotalTokens == 0 {
		// Backend omitted exact counts; fall back to the documented
		// chars/4 estimate for both sides of the call.
		usage = types.NewTokenUsage(EstimateTokens(system+user), EstimateTokens(text))
	}

	return text, usage, nil
}
