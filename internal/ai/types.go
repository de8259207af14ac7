// Package ai provides the language-model provider abstraction used by
// document generation: prompt construction, two interchangeable backends
// (OpenAI-compatible and Gemini-compatible), structured-output parsing,
// and token/cost accounting.
package ai

import (
	"context"

	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/types"
)

// ProviderType identifies a language-model backend.
type ProviderType string

// Supported provider types.
const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
)

// Provider is the contract exposed to the generation orchestrator.
// Both backends produce interface-identical results; callers never
// branch on the concrete type.
type Provider interface {
	GenerateResume(ctx context.Context, opts GenerateOptions) (*ResumeResult, error)
	GenerateCoverLetter(ctx context.Context, opts GenerateOptions) (*CoverLetterResult, error)
	// CalculateCost computes the USD cost of a usage record under this
	// provider's own pricing table.
	CalculateCost(usage types.TokenUsage) float64
	Model() string
	Type() ProviderType
	Pricing() types.Pricing
}

// JobTarget describes the role a document is tailored to.
type JobTarget struct {
	Role            string `json:"role"`
	Company         string `json:"company"`
	CompanyWebsite  string `json:"companyWebsite,omitempty"`
	DescriptionText string `json:"descriptionText,omitempty"`
}

// PromptOverride carries caller-supplied prompt customization. The user
// prompt template is interpolated against the enumerated placeholder set
// only; it cannot reach arbitrary data.
type PromptOverride struct {
	SystemPrompt       string `json:"systemPrompt,omitempty"`
	UserPromptTemplate string `json:"userPromptTemplate,omitempty"`
}

// GenerateOptions is the full input to one generation call. It is
// identical for both document types and both providers.
type GenerateOptions struct {
	PersonalInfo   content.PersonalInfo
	Job            JobTarget
	Experience     []content.ExperienceEntry
	Blurbs         []content.BlurbEntry
	Emphasize      []string
	PromptOverride *PromptOverride
}

// ResumeResult is the outcome of one resume generation call.
type ResumeResult struct {
	Content    *types.ResumeContent `json:"content"`
	TokenUsage types.TokenUsage     `json:"tokenUsage"`
	Model      string               `json:"model"`
}

// CoverLetterResult is the outcome of one cover letter generation call.
type CoverLetterResult struct {
	Content    *types.CoverLetterContent `json:"content"`
	TokenUsage types.TokenUsage          `json:"tokenUsage"`
	Model      string                    `json:"model"`
}
