package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drewhammond/folio-api/internal/ai"
	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/types"
)

// fakeStore is an in-memory RecordStore that can be told to fail request
// writes. Responses are guarded so a duplicate write fails the test.
type fakeStore struct {
	requests     map[string]*GeneratorRequest
	responses    map[string]*GeneratorResponse
	failRequests bool
	requestSaves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		requests:  map[string]*GeneratorRequest{},
		responses: map[string]*GeneratorResponse{},
	}
}

func (s *fakeStore) SaveRequest(_ context.Context, req *GeneratorRequest) error {
	s.requestSaves++
	if s.failRequests {
		return errors.New("store unavailable")
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *fakeStore) GetRequest(_ context.Context, id string) (*GeneratorRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (s *fakeStore) SaveResponse(_ context.Context, resp *GeneratorResponse) error {
	if _, ok := s.responses[resp.ID]; ok {
		return fmt.Errorf("response %s already exists", resp.ID)
	}
	cp := *resp
	s.responses[resp.ID] = &cp
	return nil
}

func (s *fakeStore) GetResponse(_ context.Context, id string) (*GeneratorResponse, error) {
	resp, ok := s.responses[id]
	if !ok {
		return nil, nil
	}
	cp := *resp
	return &cp, nil
}

// fakeProvider returns canned content and counts calls so tests can
// assert which model stages actually ran.
type fakeProvider struct {
	resumeCalls      int
	coverLetterCalls int
	resumeErr        error
	coverLetterErr   error
}

func (p *fakeProvider) GenerateResume(_ context.Context, _ ai.GenerateOptions) (*ai.ResumeResult, error) {
	p.resumeCalls++
	if p.resumeErr != nil {
		return nil, p.resumeErr
	}
	return &ai.ResumeResult{
		Content: &types.ResumeContent{
			PersonalInfo: types.ResumePersonalInfo{
				Name:    "Ada Lovelace",
				Title:   "Engineer",
				Contact: types.ResumeContact{Email: "ada@example.com"},
			},
			ProfessionalSummary: "Engineer.",
		},
		TokenUsage: types.NewTokenUsage(100, 50),
		Model:      "fake-model",
	}, nil
}

func (p *fakeProvider) GenerateCoverLetter(_ context.Context, _ ai.GenerateOptions) (*ai.CoverLetterResult, error) {
	p.coverLetterCalls++
	if p.coverLetterErr != nil {
		return nil, p.coverLetterErr
	}
	return &ai.CoverLetterResult{
		Content: &types.CoverLetterContent{
			Greeting:         "Dear Acme Hiring Team,",
			OpeningParagraph: "I am writing to apply.",
			BodyParagraphs:   []string{"Body."},
			ClosingParagraph: "Thank you.",
			Signature:        "Ada Lovelace",
		},
		TokenUsage: types.NewTokenUsage(80, 40),
		Model:      "fake-model",
	}, nil
}

func (p *fakeProvider) CalculateCost(usage types.TokenUsage) float64 {
	return float64(usage.TotalTokens) / 1_000_000
}

func (p *fakeProvider) Model() string          { return "fake-model" }
func (p *fakeProvider) Type() ai.ProviderType  { return ai.ProviderGemini }
func (p *fakeProvider) Pricing() types.Pricing { return types.Pricing{InputCostPer1M: 1, OutputCostPer1M: 1} }

type fakeFactory struct {
	provider *fakeProvider
	err      error
}

func (f *fakeFactory) CreateProvider(_ context.Context, _ ai.ProviderType) (ai.Provider, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.provider, nil
}

type fakeRenderer struct {
	resumeErr error
	letterErr error
}

func (r *fakeRenderer) RenderResume(_ context.Context, _ *types.ResumeContent, _, _ string) ([]byte, error) {
	if r.resumeErr != nil {
		return nil, r.resumeErr
	}
	return []byte("%PDF-1.4 resume"), nil
}

func (r *fakeRenderer) RenderCoverLetter(_ context.Context, _ *types.CoverLetterContent, _, _, _ string) ([]byte, error) {
	if r.letterErr != nil {
		return nil, r.letterErr
	}
	return []byte("%PDF-1.4 letter"), nil
}

type fakeFiles struct {
	saved map[string][]byte
	err   error
}

func (f *fakeFiles) Save(_ context.Context, requestID, filename string, data []byte) (*FileArtifact, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[filename] = data
	return &FileArtifact{
		Name:      filename,
		Path:      "/tmp/" + requestID + "/" + filename,
		SizeBytes: int64(len(data)),
	}, nil
}

type harness struct {
	orch     *Orchestrator
	store    *fakeStore
	provider *fakeProvider
	renderer *fakeRenderer
	files    *fakeFiles
}

func newHarness() *harness {
	h := &harness{
		store:    newFakeStore(),
		provider: &fakeProvider{},
		renderer: &fakeRenderer{},
		files:    &fakeFiles{},
	}
	h.orch = New(h.store, &fakeFactory{provider: h.provider}, h.renderer, h.files, slog.Default())
	return h
}

func testSnapshot() *content.Snapshot {
	return &content.Snapshot{
		PersonalInfo: content.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		Experience: []content.ExperienceEntry{{
			ID:        "exp-1",
			Company:   "Analytical Engines Ltd",
			Role:      "Engineer",
			StartDate: "2020-01",
		}},
		Blurbs: []content.BlurbEntry{{
			ID:              "blurb-1",
			ExperienceID:    "exp-1",
			Accomplishments: []string{"Wrote the first program"},
		}},
	}
}

func createRequest(t *testing.T, h *harness, generateType GenerateType) *GeneratorRequest {
	t.Helper()
	req, err := h.orch.CreateRequest(context.Background(), NewRequestInput{
		GenerateType: generateType,
		Snapshot:     testSnapshot(),
		Job:          ai.JobTarget{Role: "Engineer", Company: "Acme"},
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	h := newHarness()

	req := createRequest(t, h, GenerateBoth)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, ai.ProviderGemini, req.Provider, "defaults to the cheaper provider")
	assert.Contains(t, req.ID, "gen-request-")
	assert.Len(t, req.Steps, 5)
	assert.Equal(t, "Ada Lovelace", req.PersonalInfo.Name)
	assert.Len(t, req.Experience, 1)

	stored, err := h.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "request is persisted at creation")
}

func TestCreateRequest_InvalidInput(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.orch.CreateRequest(ctx, NewRequestInput{GenerateType: "poem", Snapshot: testSnapshot()})
	assert.ErrorContains(t, err, "invalid generate type")

	_, err = h.orch.CreateRequest(ctx, NewRequestInput{GenerateType: GenerateResume})
	assert.ErrorContains(t, err, "snapshot is required")
}

func TestCreateRequest_KeepsExplicitProvider(t *testing.T) {
	h := newHarness()
	req, err := h.orch.CreateRequest(context.Background(), NewRequestInput{
		GenerateType: GenerateResume,
		Provider:     ai.ProviderOpenAI,
		Snapshot:     testSnapshot(),
	})
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, req.Provider)
}

func TestRun_BothDocuments(t *testing.T) {
	h := newHarness()
	req := createRequest(t, h, GenerateBoth)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.Result.Success)
	assert.Nil(t, resp.Result.Error)
	require.NotNil(t, resp.Result.Resume)
	require.NotNil(t, resp.Result.CoverLetter)
	assert.Equal(t, ResponseID(req.ID), resp.ID)
	assert.Equal(t, req.ID, resp.RequestID)

	// Usage sums both model calls: (100+50) + (80+40).
	assert.Equal(t, 270, resp.Metrics.TokenUsage.TotalTokens)
	assert.Equal(t, "fake-model", resp.Metrics.Model)
	assert.InDelta(t, 270.0/1_000_000, resp.Metrics.CostUSD, 1e-12)

	assert.Equal(t, StatusCompleted, req.Status)
	assert.Equal(t, 1, h.provider.resumeCalls)
	assert.Equal(t, 1, h.provider.coverLetterCalls)

	require.Len(t, resp.Files, 2)
	assert.Equal(t, "resume.pdf", resp.Files[0].Name)
	assert.Equal(t, "cover_letter.pdf", resp.Files[1].Name)

	for _, id := range []string{StepIDResume, StepIDCoverLetter, StepIDRenderPDF, StepIDUploadFiles} {
		step := req.Step(id)
		require.NotNil(t, step, id)
		assert.Equal(t, StepCompleted, step.Status, id)
		assert.NotNil(t, step.StartedAt, id)
		assert.NotNil(t, step.CompletedAt, id)
		assert.NotNil(t, step.DurationMs, id)
	}

	stored, err := h.store.GetResponse(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Result.Success)
}

func TestRun_ResumeOnly_SkipsCoverLetter(t *testing.T) {
	h := newHarness()
	req := createRequest(t, h, GenerateResume)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.Result.Success)
	assert.NotNil(t, resp.Result.Resume)
	assert.Nil(t, resp.Result.CoverLetter)
	assert.Equal(t, 0, h.provider.coverLetterCalls)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "resume.pdf", resp.Files[0].Name)
}

func TestRun_ModelFailure(t *testing.T) {
	h := newHarness()
	h.provider.resumeErr = errors.New("model overloaded")
	req := createRequest(t, h, GenerateBoth)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err, "pipeline failures are reported in the response, not the error")
	require.NotNil(t, resp)

	assert.False(t, resp.Result.Success)
	require.NotNil(t, resp.Result.Error)
	assert.Equal(t, ResumeStage(ai.ProviderGemini), resp.Result.Error.Stage)
	assert.Contains(t, resp.Result.Error.Message, "model overloaded")

	assert.Equal(t, StatusFailed, req.Status)
	assert.Equal(t, StepFailed, req.Step(StepIDResume).Status)
	assert.Equal(t, StepPending, req.Step(StepIDCoverLetter).Status,
		"stages after the failure never start")
	assert.Equal(t, 0, h.provider.coverLetterCalls)
	assert.Empty(t, resp.Files)

	// The failed response is persisted too.
	stored, err := h.store.GetResponse(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.Result.Success)
}

func TestRun_RenderFailure(t *testing.T) {
	h := newHarness()
	h.renderer.resumeErr = errors.New("browser exited")
	req := createRequest(t, h, GenerateResume)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Result.Success)
	require.NotNil(t, resp.Result.Error)
	assert.Equal(t, StagePDFGeneration, resp.Result.Error.Stage)

	// The model stage completed, so its content is still in the response
	// and available for retry.
	assert.NotNil(t, resp.Result.Resume)
	assert.Equal(t, StepCompleted, req.Step(StepIDResume).Status)
	assert.Equal(t, StepFailed, req.Step(StepIDRenderPDF).Status)
}

func TestRun_UploadFailure(t *testing.T) {
	h := newHarness()
	h.files.err = errors.New("disk full")
	req := createRequest(t, h, GenerateResume)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Result.Success)
	require.NotNil(t, resp.Result.Error)
	assert.Equal(t, StageFileUpload, resp.Result.Error.Stage)
	assert.Equal(t, StepFailed, req.Step(StepIDUploadFiles).Status)
}

func TestRun_FactoryError(t *testing.T) {
	h := newHarness()
	h.orch = New(h.store, &fakeFactory{err: errors.New("missing credentials")}, h.renderer, h.files, nil)
	req := createRequest(t, h, GenerateResume)

	resp, err := h.orch.Run(context.Background(), req)
	assert.Nil(t, resp)
	assert.ErrorContains(t, err, "missing credentials",
		"configuration errors surface directly instead of a failed response")

	// The record still reaches a terminal status rather than reporting
	// an in-flight run forever.
	assert.Equal(t, StatusFailed, req.Status)
	stored, getErr := h.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, getErr)
	require.NotNil(t, stored)
	assert.Equal(t, StatusFailed, stored.Status)
}

func TestRun_ProgressWriteFailuresAreSwallowed(t *testing.T) {
	h := newHarness()
	req := createRequest(t, h, GenerateResume)

	// Every request write after creation fails; the run must still
	// complete and persist its response.
	h.store.failRequests = true

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Result.Success)
	assert.Equal(t, StatusCompleted, req.Status)

	stored, err := h.store.GetResponse(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestRetry_SkipsCompletedModelStages(t *testing.T) {
	h := newHarness()
	h.renderer.resumeErr = errors.New("browser exited")
	req := createRequest(t, h, GenerateBoth)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)
	require.False(t, resp.Result.Success)
	require.Equal(t, 1, h.provider.resumeCalls)
	require.Equal(t, 1, h.provider.coverLetterCalls)

	// Renderer recovers; retry should reuse the stored model output.
	h.renderer.resumeErr = nil

	clone, retryResp, err := h.orch.Retry(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, retryResp)

	assert.NotEqual(t, req.ID, clone.ID)
	assert.Equal(t, req.ID, clone.RetryOf)
	assert.Equal(t, StatusCompleted, clone.Status)

	assert.True(t, retryResp.Result.Success)
	assert.Equal(t, ResponseID(clone.ID), retryResp.ID, "the retry writes its own response record")

	assert.Equal(t, 1, h.provider.resumeCalls, "model stages were not re-run")
	assert.Equal(t, 1, h.provider.coverLetterCalls)
	assert.Equal(t, StepSkipped, clone.Step(StepIDResume).Status)
	assert.Equal(t, StepSkipped, clone.Step(StepIDCoverLetter).Status)
	assert.Equal(t, StepCompleted, clone.Step(StepIDRenderPDF).Status)

	// Token usage and content come from the original model calls.
	assert.Equal(t, 270, retryResp.Metrics.TokenUsage.TotalTokens)
	require.NotNil(t, retryResp.Result.Resume)

	// The original record is untouched.
	original, err := h.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, original.Status)
}

func TestRetry_RerunsFailedModelStage(t *testing.T) {
	h := newHarness()
	h.provider.coverLetterErr = errors.New("model overloaded")
	req := createRequest(t, h, GenerateBoth)

	resp, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)
	require.False(t, resp.Result.Success)
	require.Equal(t, CoverLetterStage(ai.ProviderGemini), resp.Result.Error.Stage)

	h.provider.coverLetterErr = nil

	clone, retryResp, err := h.orch.Retry(context.Background(), req.ID)
	require.NoError(t, err)
	assert.True(t, retryResp.Result.Success)

	assert.Equal(t, 1, h.provider.resumeCalls, "the completed resume stage is skipped")
	assert.Equal(t, 2, h.provider.coverLetterCalls, "the failed stage runs again")
	assert.Equal(t, StepSkipped, clone.Step(StepIDResume).Status)
	assert.Equal(t, StepCompleted, clone.Step(StepIDCoverLetter).Status)
}

func TestRetry_OnlyFailedRequests(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	req := createRequest(t, h, GenerateResume)
	_, _, err := h.orch.Retry(ctx, req.ID)
	assert.ErrorContains(t, err, "only failed requests can be retried")

	_, err = h.orch.Run(ctx, req)
	require.NoError(t, err)
	_, _, err = h.orch.Retry(ctx, req.ID)
	assert.ErrorContains(t, err, "only failed requests can be retried")

	_, _, err = h.orch.Retry(ctx, "gen-request-0-missing")
	assert.ErrorContains(t, err, "not found")
}

func TestRun_PersistsIntermediateResultsDuringPipeline(t *testing.T) {
	h := newHarness()
	req := createRequest(t, h, GenerateBoth)

	_, err := h.orch.Run(context.Background(), req)
	require.NoError(t, err)

	stored, err := h.store.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Intermediate.Resume)
	require.NotNil(t, stored.Intermediate.CoverLetter)
	assert.Equal(t, "fake-model", stored.Intermediate.Resume.Model)
}

func TestCostCalculation(t *testing.T) {
	usage := types.NewTokenUsage(1_000_000, 500_000)

	pricing := types.Pricing{InputCostPer1M: 0.10, OutputCostPer1M: 0.40}
	assert.InDelta(t, 0.10+0.20, pricing.CostUSD(usage), 1e-9)

	pricing = types.Pricing{InputCostPer1M: 0.15, OutputCostPer1M: 0.60}
	assert.InDelta(t, 0.15+0.30, pricing.CostUSD(usage), 1e-9)
}
