package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/drewhammond/folio-api/internal/ai"
	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/types"
)

// RecordStore persists generator requests and responses. Requests are
// upserted as they mutate; a response is written exactly once.
type RecordStore interface {
	SaveRequest(ctx context.Context, req *GeneratorRequest) error
	GetRequest(ctx context.Context, id string) (*GeneratorRequest, error)
	SaveResponse(ctx context.Context, resp *GeneratorResponse) error
	GetResponse(ctx context.Context, id string) (*GeneratorResponse, error)
}

// DocumentRenderer turns structured content into PDF bytes.
type DocumentRenderer interface {
	RenderResume(ctx context.Context, resume *types.ResumeContent, style, accentColor string) ([]byte, error)
	RenderCoverLetter(ctx context.Context, letter *types.CoverLetterContent, name, email, accentColor string) ([]byte, error)
}

// FileStore persists rendered artifacts and returns their descriptors.
type FileStore interface {
	Save(ctx context.Context, requestID, filename string, data []byte) (*FileArtifact, error)
}

// ProviderFactory resolves a provider type to a usable provider.
type ProviderFactory interface {
	CreateProvider(ctx context.Context, providerType ai.ProviderType) (ai.Provider, error)
}

// Orchestrator drives one generation request through its lifecycle.
// A single orchestrating caller mutates a request at a time; the store
// provides no multi-writer protocol.
type Orchestrator struct {
	store    RecordStore
	factory  ProviderFactory
	renderer DocumentRenderer
	files    FileStore
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an orchestrator. All collaborators are required except the
// logger, which defaults to slog.Default().
func New(store RecordStore, factory ProviderFactory, renderer DocumentRenderer, files FileStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:    store,
		factory:  factory,
		renderer: renderer,
		files:    files,
		logger:   logger,
		now:      time.Now,
	}
}

// NewRequestInput is the caller-supplied material for a request record.
type NewRequestInput struct {
	GenerateType   GenerateType
	Provider       ai.ProviderType
	Snapshot       *content.Snapshot
	Job            ai.JobTarget
	Preferences    Preferences
	PromptOverride *ai.PromptOverride
	Access         AccessMetadata
}

// CreateRequest builds and persists a pending request record with a
// frozen snapshot of portfolio data and a step list matching the
// requested document types.
func (o *Orchestrator) CreateRequest(ctx context.Context, input NewRequestInput) (*GeneratorRequest, error) {
	if !input.GenerateType.Valid() {
		return nil, fmt.Errorf("invalid generate type %q", input.GenerateType)
	}
	if input.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	provider := input.Provider
	if provider == "" {
		provider = ai.DefaultProviderType()
	}

	now := o.now()
	req := &GeneratorRequest{
		ID:             NewRequestID(now),
		GenerateType:   input.GenerateType,
		Provider:       provider,
		PersonalInfo:   input.Snapshot.PersonalInfo,
		Job:            input.Job,
		Experience:     input.Snapshot.Experience,
		Blurbs:         input.Snapshot.Blurbs,
		Preferences:    input.Preferences,
		PromptOverride: input.PromptOverride,
		Status:         StatusPending,
		Steps:          buildSteps(input.GenerateType, now),
		Access:         input.Access,
		CreatedAt:      now,
	}

	if err := o.store.SaveRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to persist request: %w", err)
	}
	return req, nil
}

// buildSteps returns the ordered step list for a generate type. The
// snapshot step is already complete: the data was frozen at creation.
func buildSteps(generateType GenerateType, now time.Time) []GenerationStep {
	done := now
	steps := []GenerationStep{{
		ID:          StepIDSnapshot,
		Name:        "Capture portfolio snapshot",
		Description: "Freeze experience entries and blurbs for this request",
		Status:      StepCompleted,
		StartedAt:   &done,
		CompletedAt: &done,
	}}

	if generateType.WantsResume() {
		steps = append(steps, GenerationStep{
			ID:          StepIDResume,
			Name:        "Generate resume content",
			Description: "Call the language model for tailored resume content",
			Status:      StepPending,
		})
	}
	if generateType.WantsCoverLetter() {
		steps = append(steps, GenerationStep{
			ID:          StepIDCoverLetter,
			Name:        "Generate cover letter content",
			Description: "Call the language model for tailored cover letter content",
			Status:      StepPending,
		})
	}

	steps = append(steps,
		GenerationStep{
			ID:          StepIDRenderPDF,
			Name:        "Render PDF",
			Description: "Compile content to HTML and print to PDF",
			Status:      StepPending,
		},
		GenerationStep{
			ID:          StepIDUploadFiles,
			Name:        "Store files",
			Description: "Persist rendered documents",
			Status:      StepPending,
		},
	)
	return steps
}

// Run executes the pipeline for a pending request and returns the
// persisted response. Pipeline failures are reported inside the
// response's result; the returned error is reserved for infrastructure
// failures (the request or response could not be persisted).
func (o *Orchestrator) Run(ctx context.Context, req *GeneratorRequest) (*GeneratorResponse, error) {
	started := o.now()

	if err := req.AdvanceStatus(StatusProcessing); err != nil {
		return nil, err
	}
	o.saveProgress(ctx, req)

	provider, err := o.factory.CreateProvider(ctx, req.Provider)
	if err != nil {
		// Configuration error: fail fast, surfaced to the caller. The
		// record still reaches a terminal status so it is never
		// reported as an in-flight run.
		if advErr := req.AdvanceStatus(StatusFailed); advErr == nil {
			o.saveProgress(ctx, req)
		}
		return nil, err
	}

	opts := ai.GenerateOptions{
		PersonalInfo:   req.PersonalInfo,
		Job:            req.Job,
		Experience:     req.Experience,
		Blurbs:         req.Blurbs,
		Emphasize:      req.Preferences.Emphasize,
		PromptOverride: req.PromptOverride,
	}

	if stageErr := o.runModelStages(ctx, req, provider, opts); stageErr != nil {
		return o.finalize(ctx, req, provider, started, stageErr)
	}

	files, stageErr := o.runRenderStages(ctx, req)
	if stageErr != nil {
		return o.finalize(ctx, req, provider, started, stageErr)
	}

	resp, err := o.finalize(ctx, req, provider, started, nil)
	if err != nil {
		return nil, err
	}
	resp.Files = files
	if err := o.store.SaveResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("failed to persist response: %w", err)
	}
	return resp, nil
}

// runModelStages performs the language-model calls, persisting each
// intermediate result so a retry can skip completed stages.
func (o *Orchestrator) runModelStages(ctx context.Context, req *GeneratorRequest, provider ai.Provider, opts ai.GenerateOptions) *GenerationError {
	if req.GenerateType.WantsResume() {
		if req.Intermediate.Resume != nil {
			o.markStep(ctx, req, StepIDResume, StepSkipped, nil, nil)
		} else {
			o.markStep(ctx, req, StepIDResume, StepInProgress, nil, nil)
			result, err := provider.GenerateResume(ctx, opts)
			if err != nil {
				o.markStep(ctx, req, StepIDResume, StepFailed, nil, err)
				return &GenerationError{Stage: ResumeStage(req.Provider), Message: err.Error()}
			}
			req.Intermediate.Resume = result
			o.markStep(ctx, req, StepIDResume, StepCompleted, map[string]any{
				"tokenUsage": result.TokenUsage,
			}, nil)
		}
	}

	if req.GenerateType.WantsCoverLetter() {
		if req.Intermediate.CoverLetter != nil {
			o.markStep(ctx, req, StepIDCoverLetter, StepSkipped, nil, nil)
		} else {
			o.markStep(ctx, req, StepIDCoverLetter, StepInProgress, nil, nil)
			result, err := provider.GenerateCoverLetter(ctx, opts)
			if err != nil {
				o.markStep(ctx, req, StepIDCoverLetter, StepFailed, nil, err)
				return &GenerationError{Stage: CoverLetterStage(req.Provider), Message: err.Error()}
			}
			req.Intermediate.CoverLetter = result
			o.markStep(ctx, req, StepIDCoverLetter, StepCompleted, map[string]any{
				"tokenUsage": result.TokenUsage,
			}, nil)
		}
	}

	return nil
}

// runRenderStages renders PDFs from intermediate content and stores the
// resulting files.
func (o *Orchestrator) runRenderStages(ctx context.Context, req *GeneratorRequest) ([]FileArtifact, *GenerationError) {
	o.markStep(ctx, req, StepIDRenderPDF, StepInProgress, nil, nil)

	type rendered struct {
		name string
		data []byte
	}
	var outputs []rendered

	if req.Intermediate.Resume != nil {
		data, err := o.renderer.RenderResume(ctx, req.Intermediate.Resume.Content, req.Preferences.Style, req.Preferences.AccentColor)
		if err != nil {
			o.markStep(ctx, req, StepIDRenderPDF, StepFailed, nil, err)
			return nil, &GenerationError{Stage: StagePDFGeneration, Message: err.Error()}
		}
		outputs = append(outputs, rendered{name: "resume.pdf", data: data})
	}
	if req.Intermediate.CoverLetter != nil {
		data, err := o.renderer.RenderCoverLetter(ctx, req.Intermediate.CoverLetter.Content,
			req.PersonalInfo.Name, req.PersonalInfo.Email, req.Preferences.AccentColor)
		if err != nil {
			o.markStep(ctx, req, StepIDRenderPDF, StepFailed, nil, err)
			return nil, &GenerationError{Stage: StagePDFGeneration, Message: err.Error()}
		}
		outputs = append(outputs, rendered{name: "cover_letter.pdf", data: data})
	}
	o.markStep(ctx, req, StepIDRenderPDF, StepCompleted, map[string]any{"documents": len(outputs)}, nil)

	o.markStep(ctx, req, StepIDUploadFiles, StepInProgress, nil, nil)
	var files []FileArtifact
	for _, out := range outputs {
		artifact, err := o.files.Save(ctx, req.ID, out.name, out.data)
		if err != nil {
			o.markStep(ctx, req, StepIDUploadFiles, StepFailed, nil, err)
			return nil, &GenerationError{Stage: StageFileUpload, Message: err.Error()}
		}
		files = append(files, *artifact)
	}
	o.markStep(ctx, req, StepIDUploadFiles, StepCompleted, map[string]any{"files": len(files)}, nil)

	return files, nil
}

// finalize moves the request to its terminal status and builds the
// response record. On success the caller attaches files and persists the
// response; on failure the response is persisted here.
func (o *Orchestrator) finalize(ctx context.Context, req *GeneratorRequest, provider ai.Provider, started time.Time, stageErr *GenerationError) (*GeneratorResponse, error) {
	terminal := StatusCompleted
	if stageErr != nil {
		terminal = StatusFailed
	}
	if err := req.AdvanceStatus(terminal); err != nil {
		return nil, err
	}
	o.saveProgress(ctx, req)

	usage := types.TokenUsage{}
	if req.Intermediate.Resume != nil {
		usage = usage.Add(req.Intermediate.Resume.TokenUsage)
	}
	if req.Intermediate.CoverLetter != nil {
		usage = usage.Add(req.Intermediate.CoverLetter.TokenUsage)
	}

	result := GenerationResult{Success: stageErr == nil, Error: stageErr}
	if req.Intermediate.Resume != nil {
		result.Resume = req.Intermediate.Resume.Content
	}
	if req.Intermediate.CoverLetter != nil {
		result.CoverLetter = req.Intermediate.CoverLetter.Content
	}

	resp := &GeneratorResponse{
		ID:        ResponseID(req.ID),
		RequestID: req.ID,
		Result:    result,
		Metrics: Metrics{
			DurationMs: o.now().Sub(started).Milliseconds(),
			TokenUsage: usage,
			CostUSD:    provider.CalculateCost(usage),
			Model:      provider.Model(),
		},
		CreatedAt: o.now(),
	}

	if stageErr != nil {
		if err := o.store.SaveResponse(ctx, resp); err != nil {
			return nil, fmt.Errorf("failed to persist response: %w", err)
		}
	}
	return resp, nil
}

// Retry clones a failed request into a fresh pending record, carrying
// over intermediate results so completed model stages are skipped, and
// runs it. Cloning keeps both record invariants intact: a request's
// status never regresses and a response is created at most once.
func (o *Orchestrator) Retry(ctx context.Context, requestID string) (*GeneratorRequest, *GeneratorResponse, error) {
	original, err := o.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load request %s: %w", requestID, err)
	}
	if original == nil {
		return nil, nil, fmt.Errorf("request %s not found", requestID)
	}
	if original.Status != StatusFailed {
		return nil, nil, fmt.Errorf("request %s is %s; only failed requests can be retried", requestID, original.Status)
	}

	now := o.now()
	clone := *original
	clone.ID = NewRequestID(now)
	clone.Status = StatusPending
	clone.Steps = buildSteps(original.GenerateType, now)
	clone.RetryOf = original.ID
	clone.CreatedAt = now
	// Intermediate results carry over: that is the whole point of retry.

	if err := o.store.SaveRequest(ctx, &clone); err != nil {
		return nil, nil, fmt.Errorf("failed to persist retry request: %w", err)
	}

	resp, err := o.Run(ctx, &clone)
	if err != nil {
		return &clone, nil, err
	}
	return &clone, resp, nil
}

// markStep updates one step's state and timestamps, then persists the
// request. Persistence failures here are logged and swallowed: progress
// reporting is best-effort telemetry, never a reason to abort an
// otherwise-successful generation.
func (o *Orchestrator) markStep(ctx context.Context, req *GeneratorRequest, stepID string, status StepStatus, result map[string]any, stepErr error) {
	step := req.Step(stepID)
	if step == nil {
		o.logger.Warn("unknown step", "request_id", req.ID, "step", stepID)
		return
	}

	now := o.now()
	step.Status = status
	switch status {
	case StepInProgress:
		step.StartedAt = &now
	case StepCompleted, StepFailed, StepSkipped:
		step.CompletedAt = &now
		if step.StartedAt != nil {
			ms := now.Sub(*step.StartedAt).Milliseconds()
			step.DurationMs = &ms
		}
	}
	if result != nil {
		step.Result = result
	}
	if stepErr != nil {
		step.Error = &StepError{Message: stepErr.Error()}
	}

	o.saveProgress(ctx, req)
}

// saveProgress persists the request record, logging and swallowing any
// failure.
func (o *Orchestrator) saveProgress(ctx context.Context, req *GeneratorRequest) {
	if err := o.store.SaveRequest(ctx, req); err != nil {
		o.logger.Warn("failed to persist progress update",
			"request_id", req.ID, "status", req.Status, "error", err)
	}
}
