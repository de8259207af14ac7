package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/drewhammond/folio-api/internal/schemas"
	"github.com/drewhammond/folio-api/internal/types"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiPricing is the gemini-2.0-flash rate table, USD per 1M tokens.
var geminiPricing = types.Pricing{InputCostPer1M: 0.10, OutputCostPer1M: 0.40}

// GeminiProvider implements Provider against the Gemini API.
type GeminiProvider struct {
	apiKey  string
	model   string
	pricing types.Pricing
	mock    bool
}

// GeminiOption customizes a provider at construction time.
type GeminiOption func(*GeminiProvider)

// WithGeminiModel overrides the default model.
func WithGeminiModel(model string) GeminiOption {
	return func(p *GeminiProvider) { p.model = model }
}

// WithGeminiMockMode enables the deterministic network-free path.
func WithGeminiMockMode(mock bool) GeminiOption {
	return func(p *GeminiProvider) { p.mock = mock }
}

// NewGeminiProvider creates a Gemini-backed provider. The API key is
// required unless mock mode is enabled.
func NewGeminiProvider(apiKey string, opts ...GeminiOption) (*GeminiProvider, error) {
	p := &GeminiProvider{
		apiKey:  apiKey,
		model:   defaultGeminiModel,
		pricing: geminiPricing,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" && !p.mock {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	return p, nil
}

// Model returns the configured model identifier.
func (p *GeminiProvider) Model() string { return p.model }

// Type returns ProviderGemini.
func (p *GeminiProvider) Type() ProviderType { return ProviderGemini }

// Pricing returns the provider's immutable rate table.
func (p *GeminiProvider) Pricing() types.Pricing { return p.pricing }

// CalculateCost computes the USD cost of a usage record.
func (p *GeminiProvider) CalculateCost(usage types.TokenUsage) float64 {
	return p.pricing.CostUSD(usage)
}

// GenerateResume produces tailored resume content.
func (p *GeminiProvider) GenerateResume(ctx context.Context, opts GenerateOptions) (*ResumeResult, error) {
	if p.mock {
		return mockResume(opts, p.model), nil
	}

	system, user := buildResumePrompts(opts)
	text, usage, err := p.generate(ctx, system, user, resumeResponseSchema())
	if err != nil {
		return nil, fmt.Errorf("Gemini resume generation failed: %w", err)
	}

	if err := schemas.ValidateResumeContent(text); err != nil {
		return nil, fmt.Errorf("Gemini resume generation failed: %w", err)
	}

	var resume types.ResumeContent
	if err := json.Unmarshal([]byte(text), &resume); err != nil {
		return nil, fmt.Errorf("Gemini resume generation failed: %w", err)
	}

	return &ResumeResult{Content: &resume, TokenUsage: usage, Model: p.model}, nil
}

// GenerateCoverLetter produces tailored cover letter content.
func (p *GeminiProvider) GenerateCoverLetter(ctx context.Context, opts GenerateOptions) (*CoverLetterResult, error) {
	if p.mock {
		return mockCoverLetter(opts, p.model), nil
	}

	system, user := buildCoverLetterPrompts(opts)
	text, usage, err := p.generate(ctx, system, user, coverLetterResponseSchema())
	if err != nil {
		return nil, fmt.Errorf("Gemini cover letter generation failed: %w", err)
	}

	if err := schemas.ValidateCoverLetterContent(text); err != nil {
		return nil, fmt.Errorf("Gemini cover letter generation failed: %w", err)
	}

	var letter types.CoverLetterContent
	if err := json.Unmarshal([]byte(text), &letter); err != nil {
		return nil, fmt.Errorf("Gemini cover letter generation failed: %w", err)
	}

	return &CoverLetterResult{Content: &letter, TokenUsage: usage, Model: p.model}, nil
}

// generate issues one schema-constrained call with deterministic
// decoding and returns the raw JSON text plus token usage.
func (p *GeminiProvider) generate(ctx context.Context, system, user string, schema *genai.Schema) (string, types.TokenUsage, error) {
	var zero types.TokenUsage

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", zero, fmt.Errorf("failed to create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(0) // deterministic decoding for factual content
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", zero, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", zero, err
	}
	text = cleanJSONBlock(text)

	usage := zero
	if resp.UsageMetadata != nil {
		usage = types.NewTokenUsage(int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	} else {
		// Backend omitted exact counts; fall back to the documented
		// chars/4 estimate for both sides of the call.
		usage = types.NewTokenUsage(EstimateTokens(system+user), EstimateTokens(text))
	}

	return text, usage, nil
}

// extractText pulls the text parts out of a Gemini response.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// resumeResponseSchema mirrors internal/schemas/resume_content.json in
// the Gemini schema dialect. Gemini enforces shape at decode time;
// gojsonschema still validates the final document as the single
// enforcement point shared with the OpenAI backend.
func resumeResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"personalInfo", "professionalSummary", "experience"},
		Properties: map[string]*genai.Schema{
			"personalInfo": {
				Type:     genai.TypeObject,
				Required: []string{"name", "title", "summary"},
				Properties: map[string]*genai.Schema{
					"name":    {Type: genai.TypeString},
					"title":   {Type: genai.TypeString},
					"summary": {Type: genai.TypeString},
					"contact": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"email":    {Type: genai.TypeString},
							"phone":    {Type: genai.TypeString},
							"location": {Type: genai.TypeString},
							"website":  {Type: genai.TypeString},
						},
					},
				},
			},
			"professionalSummary": {Type: genai.TypeString},
			"experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"company", "role", "startDate", "highlights"},
					Properties: map[string]*genai.Schema{
						"company":      {Type: genai.TypeString},
						"role":         {Type: genai.TypeString},
						"location":     {Type: genai.TypeString},
						"startDate":    {Type: genai.TypeString},
						"endDate":      {Type: genai.TypeString, Nullable: true},
						"highlights":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"technologies": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
				},
			},
			"skills": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"category", "items"},
					Properties: map[string]*genai.Schema{
						"category": {Type: genai.TypeString},
						"items":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
				},
			},
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"institution", "degree"},
					Properties: map[string]*genai.Schema{
						"institution":    {Type: genai.TypeString},
						"degree":         {Type: genai.TypeString},
						"field":          {Type: genai.TypeString},
						"graduationDate": {Type: genai.TypeString},
					},
				},
			},
		},
	}
}

// coverLetterResponseSchema mirrors cover_letter_content.json.
func coverLetterResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"greeting", "openingParagraph", "bodyParagraphs", "closingParagraph", "signature"},
		Properties: map[string]*genai.Schema{
			"greeting":         {Type: genai.TypeString},
			"openingParagraph": {Type: genai.TypeString},
			"bodyParagraphs":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"closingParagraph": {Type: genai.TypeString},
			"signature":        {Type: genai.TypeString},
		},
	}
}
