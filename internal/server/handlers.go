package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/drewhammond/folio-api/internal/ai"
	"github.com/drewhammond/folio-api/internal/content"
	"github.com/drewhammond/folio-api/internal/generator"
)

// generateRequest is the POST /generate payload.
type generateRequest struct {
	GenerateType string             `json:"generateType" validate:"required,oneof=resume coverLetter both"`
	Provider     string             `json:"provider" validate:"omitempty,oneof=openai gemini"`
	Job          jobPayload         `json:"job" validate:"required"`
	Preferences  preferencesPayload `json:"preferences"`
	Prompts      *promptsPayload    `json:"prompts"`
}

type jobPayload struct {
	Role               string `json:"role" validate:"required"`
	Company            string `json:"company" validate:"required"`
	CompanyWebsite     string `json:"companyWebsite" validate:"omitempty,url"`
	JobDescriptionURL  string `json:"jobDescriptionUrl" validate:"omitempty,url"`
	JobDescriptionText string `json:"jobDescriptionText"`
}

type preferencesPayload struct {
	Style       string   `json:"style" validate:"omitempty,oneof=modern classic"`
	AccentColor string   `json:"accentColor" validate:"omitempty,hexcolor"`
	Emphasize   []string `json:"emphasize"`
}

type promptsPayload struct {
	SystemPrompt       string `json:"systemPrompt"`
	UserPromptTemplate string `json:"userPromptTemplate"`
}

// generateResponse is the POST /generate reply: the request id plus the
// outcome summary.
type generateResponse struct {
	RequestID string                       `json:"requestId"`
	Status    generator.Status             `json:"status"`
	Response  *generator.GeneratorResponse `json:"response,omitempty"`
}

// stageError is the error body for failures before the pipeline starts.
type stageError struct {
	Stage   generator.Stage `json:"stage"`
	Message string          `json:"message"`
}

// handleGenerate runs the full pipeline synchronously and returns the
// persisted response.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	ctx := r.Context()

	snapshot, err := content.LoadSnapshot(ctx, s.content)
	if err != nil {
		stage := generator.StageFetchExperience
		if strings.Contains(err.Error(), "personal info") {
			stage = generator.StageFetchDefaults
		}
		s.jsonResponse(w, http.StatusBadGateway, stageError{Stage: stage, Message: err.Error()})
		return
	}

	description := req.Job.JobDescriptionText
	if description == "" && req.Job.JobDescriptionURL != "" {
		description, err = s.fetcher.FetchJobDescription(ctx, req.Job.JobDescriptionURL)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("failed to fetch job description: %v", err))
			return
		}
	}

	provider := ai.ProviderType(req.Provider)
	if provider == "" {
		provider = s.defaultProvider
	}

	input := generator.NewRequestInput{
		GenerateType: generator.GenerateType(req.GenerateType),
		Provider:     provider,
		Snapshot:     snapshot,
		Job: ai.JobTarget{
			Role:            req.Job.Role,
			Company:         req.Job.Company,
			CompanyWebsite:  req.Job.CompanyWebsite,
			DescriptionText: description,
		},
		Preferences: generator.Preferences{
			Style:       req.Preferences.Style,
			AccentColor: req.Preferences.AccentColor,
			Emphasize:   req.Preferences.Emphasize,
		},
		Access: accessFrom(ctx),
	}
	if req.Prompts != nil {
		input.PromptOverride = &ai.PromptOverride{
			SystemPrompt:       req.Prompts.SystemPrompt,
			UserPromptTemplate: req.Prompts.UserPromptTemplate,
		}
	}

	record, err := s.orchestrator.CreateRequest(ctx, input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := s.orchestrator.Run(ctx, record)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !resp.Result.Success {
		status = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, status, generateResponse{
		RequestID: record.ID,
		Status:    record.Status,
		Response:  resp,
	})
}

// handleGetGeneration returns the request record including steps.
func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, err := s.records.GetRequest(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("generation %s not found", id))
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleGetGenerationResponse returns the response record for a request.
func (s *Server) handleGetGenerationResponse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resp, err := s.records.GetResponse(r.Context(), generator.ResponseID(id))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp == nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no response for generation %s", id))
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleRetry clones a failed request and re-runs it. Editor only.
func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	access := accessFrom(r.Context())
	if access.EditorEmail == "" {
		s.errorResponse(w, http.StatusForbidden, "retry requires an editor token")
		return
	}

	id := r.PathValue("id")
	clone, resp, err := s.orchestrator.Retry(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case strings.Contains(err.Error(), "not found"):
			status = http.StatusNotFound
		case strings.Contains(err.Error(), "only failed requests"):
			status = http.StatusConflict
		}
		s.errorResponse(w, status, err.Error())
		return
	}

	httpStatus := http.StatusOK
	if !resp.Result.Success {
		httpStatus = http.StatusUnprocessableEntity
	}
	s.jsonResponse(w, httpStatus, generateResponse{
		RequestID: clone.ID,
		Status:    clone.Status,
		Response:  resp,
	})
}

// pricingResponse is the GET /pricing/{provider} reply.
type pricingResponse struct {
	Provider        string  `json:"provider"`
	InputCostPer1M  float64 `json:"inputCostPer1M"`
	OutputCostPer1M float64 `json:"outputCostPer1M"`
}

// handlePricing returns a provider's static rate table.
func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	providerType := ai.ProviderType(r.PathValue("provider"))

	pricing, err := ai.PricingFor(providerType)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, pricingResponse{
		Provider:        string(providerType),
		InputCostPer1M:  pricing.InputCostPer1M,
		OutputCostPer1M: pricing.OutputCostPer1M,
	})
}

// validationMessage extracts the first validation failure.
func validationMessage(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
	}
	return "validation error: invalid request"
}
