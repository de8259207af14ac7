// Package generator orchestrates the document generation lifecycle: it
// creates durable request records, advances status and step state,
// stores intermediate AI output for retry, and finalizes response
// records with metrics.
package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/drewhammond/folio-api/internal/ai"
	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/types"
)

// GenerateType selects which documents a request produces.
type GenerateType string

// Supported generate types.
const (
	GenerateResume      GenerateType = "resume"
	GenerateCoverLetter GenerateType = "coverLetter"
	GenerateBoth        GenerateType = "both"
)

// Valid reports whether the value is one of the supported types.
func (t GenerateType) Valid() bool {
	switch t {
	case GenerateResume, GenerateCoverLetter, GenerateBoth:
		return true
	}
	return false
}

// WantsResume reports whether the type includes a resume.
func (t GenerateType) WantsResume() bool {
	return t == GenerateResume || t == GenerateBoth
}

// WantsCoverLetter reports whether the type includes a cover letter.
func (t GenerateType) WantsCoverLetter() bool {
	return t == GenerateCoverLetter || t == GenerateBoth
}

// Status is the request-level lifecycle state. It only ever advances
// forward: pending -> processing -> completed | failed.
type Status string

// Request statuses.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// statusRank orders statuses so transitions can be checked for
// regression. Terminal states share the top rank.
var statusRank = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
	StatusFailed:     2,
}

// StepStatus is the per-step lifecycle state, independent of the
// request status.
type StepStatus string

// Step statuses.
const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
)

// Stage identifies where in the pipeline an error occurred. It is part
// of the response contract callers branch on.
type Stage string

// Error stages.
const (
	StageFetchDefaults   Stage = "fetch_defaults"
	StageFetchExperience Stage = "fetch_experience"
	StagePDFGeneration   Stage = "pdf_generation"
	StageFileUpload      Stage = "file_upload"
)

// ResumeStage returns the provider-qualified resume stage, e.g.
// "gemini_resume".
func ResumeStage(provider ai.ProviderType) Stage {
	return Stage(string(provider) + "_resume")
}

// CoverLetterStage returns the provider-qualified cover letter stage.
func CoverLetterStage(provider ai.ProviderType) Stage {
	return Stage(string(provider) + "_cover_letter")
}

// Step identifiers used in request step lists.
const (
	StepIDSnapshot    = "capture_snapshot"
	StepIDResume      = "generate_resume"
	StepIDCoverLetter = "generate_cover_letter"
	StepIDRenderPDF   = "render_pdf"
	StepIDUploadFiles = "upload_files"
)

// GenerationStep tracks one named unit of progress within a request.
// Steps are owned exclusively by their parent request and mutated only
// by the orchestrator.
type GenerationStep struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      StepStatus     `json:"status"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	DurationMs  *int64         `json:"durationMs,omitempty"`
	Result      map[string]any `json:"result,omitempty"`
	Error       *StepError     `json:"error,omitempty"`
}

// StepError captures a step-level failure.
type StepError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// IntermediateResults holds partial AI output persisted mid-pipeline so
// a retry can skip stages that already produced results.
type IntermediateResults struct {
	Resume      *ai.ResumeResult      `json:"resume,omitempty"`
	CoverLetter *ai.CoverLetterResult `json:"coverLetter,omitempty"`
}

// AccessMetadata records who issued the request: an anonymous session or
// an authenticated editor.
type AccessMetadata struct {
	SessionID   string `json:"sessionId,omitempty"`
	EditorEmail string `json:"editorEmail,omitempty"`
}

// Preferences carries optional rendering choices.
type Preferences struct {
	Style       string   `json:"style,omitempty"`
	AccentColor string   `json:"accentColor,omitempty"`
	Emphasize   []string `json:"emphasize,omitempty"`
}

// GeneratorRequest is the durable record of one generation request. It
// is created once, mutated in place throughout generation, and never
// deleted by this package.
type GeneratorRequest struct {
	ID             string                    `json:"id"`
	GenerateType   GenerateType              `json:"generateType"`
	Provider       ai.ProviderType           `json:"provider"`
	PersonalInfo   content.PersonalInfo      `json:"personalInfo"`
	Job            ai.JobTarget              `json:"job"`
	Experience     []content.ExperienceEntry `json:"experience"`
	Blurbs         []content.BlurbEntry      `json:"blurbs"`
	Preferences    Preferences               `json:"preferences"`
	PromptOverride *ai.PromptOverride        `json:"promptOverride,omitempty"`
	Status         Status                    `json:"status"`
	Steps          []GenerationStep          `json:"steps"`
	Intermediate   IntermediateResults       `json:"intermediateResults"`
	Access         AccessMetadata            `json:"access"`
	// RetryOf references the failed request this one was cloned from.
	RetryOf   string    `json:"retryOf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdvanceStatus moves the request to a later status. Regressions and
// transitions out of a terminal state are rejected.
func (r *GeneratorRequest) AdvanceStatus(to Status) error {
	fromRank, ok := statusRank[r.Status]
	if !ok {
		return fmt.Errorf("request %s has invalid status %q", r.ID, r.Status)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("invalid status %q", to)
	}
	if toRank <= fromRank {
		return fmt.Errorf("status cannot move from %q to %q", r.Status, to)
	}
	r.Status = to
	return nil
}

// Step returns a pointer to the step with the given id, or nil.
func (r *GeneratorRequest) Step(id string) *GenerationStep {
	for i := range r.Steps {
		if r.Steps[i].ID == id {
			return &r.Steps[i]
		}
	}
	return nil
}

// ResponseID derives the response identifier from a request identifier,
// preserving correlation ("...-request-..." -> "...-response-...").
func ResponseID(requestID string) string {
	return strings.Replace(requestID, "request", "response", 1)
}

// GenerationError is the stage-qualified error recorded in a response.
type GenerationError struct {
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// GenerationResult carries the outcome callers branch on.
type GenerationResult struct {
	Success     bool                      `json:"success"`
	Resume      *types.ResumeContent      `json:"resume,omitempty"`
	CoverLetter *types.CoverLetterContent `json:"coverLetter,omitempty"`
	Error       *GenerationError          `json:"error,omitempty"`
}

// FileArtifact describes one stored output file.
type FileArtifact struct {
	Name         string `json:"name"`
	Path         string `json:"path"`
	SizeBytes    int64  `json:"sizeBytes"`
	StorageClass string `json:"storageClass,omitempty"`
}

// Metrics summarizes one completed (or failed) generation run.
type Metrics struct {
	DurationMs int64            `json:"durationMs"`
	TokenUsage types.TokenUsage `json:"tokenUsage"`
	CostUSD    float64          `json:"costUsd"`
	Model      string           `json:"model"`
}

// GeneratorResponse is the durable record of one generation outcome,
// created at most once per request after it reaches a terminal status.
type GeneratorResponse struct {
	ID        string           `json:"id"`
	RequestID string           `json:"requestId"`
	Result    GenerationResult `json:"result"`
	Files     []FileArtifact   `json:"files,omitempty"`
	Metrics   Metrics          `json:"metrics"`
	CreatedAt time.Time        `json:"createdAt"`
}
