// internal/api/handlers.go
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/veospark/veospark-server/internal/config"
	apperrors "github.com/veospark/veospark-server/internal/errors"
	"github.com/veospark/veospark-server/internal/llm"
	"github.com/veospark/veospark-server/internal/models"
	"github.com/veospark/veospark-server/internal/services"
	"github.com/veospark/veospark-server/internal/utils"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	PromptService      *services.PromptService
	TranslationService *services.TranslationService
	HistoryService     *services.HistoryService
	LLMService         *services.LLMService
	ProgressService    *services.ProgressService

	response *ResponseHelper
	logger   *utils.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	promptService *services.PromptService,
	translationService *services.TranslationService,
	historyService *services.HistoryService,
	llmService *services.LLMService,
	progressService *services.ProgressService,
) *Handler {
	return &Handler{
		PromptService:      promptService,
		TranslationService: translationService,
		HistoryService:     historyService,
		LLMService:         llmService,
		ProgressService:    progressService,
		response:           NewResponseHelper(),
		logger:             utils.GetLogger(),
	}
}

// handleServiceError maps a service error onto an HTTP response.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidationError(err):
		h.response.BadRequest(c, err.Error())
	case apperrors.IsNotFoundError(err):
		h.response.NotFound(c, err.Error())
	case apperrors.IsParseError(err):
		h.response.UpstreamError(c, "PARSE_ERROR", "the model returned an unparseable response")
	case apperrors.IsUpstreamError(err):
		h.response.UpstreamError(c, "UPSTREAM_ERROR", err.Error())
	default:
		h.response.InternalError(c, err.Error())
	}
}

// GeneratePromptRequest is the generation request body. TaskID is optional
// and enables progress streaming over the websocket endpoint. Language
// overrides the persisted preference for this one call.
type GeneratePromptRequest struct {
	models.PromptRequest
	TaskID   string `json:"taskId,omitempty"`
	Language string `json:"language,omitempty"`
}

// GeneratePrompt handles POST /api/prompts.
func (h *Handler) GeneratePrompt(c *gin.Context) {
	var req GeneratePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	language := h.HistoryService.GetLanguage()
	if models.IsValidLanguage(req.Language) {
		language = req.Language
	}

	result, err := h.PromptService.Generate(c.Request.Context(), req.PromptRequest, language, req.TaskID)
	if err != nil {
		// A failed generation adds nothing to history.
		h.handleServiceError(c, err)
		return
	}

	if err := h.HistoryService.Add(*result); err != nil {
		h.logger.Error("failed to persist generated result", map[string]interface{}{
			"result_id": result.ID,
			"error":     err.Error(),
		})
	}

	h.response.Created(c, result, "Prompt generated")
}

// RegeneratePrompt handles POST /api/prompts/:id/regenerate. The stored
// request is reused verbatim; the outcome is a new history entry.
func (h *Handler) RegeneratePrompt(c *gin.Context) {
	id := c.Param("id")

	existing, err := h.HistoryService.Get(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	language := h.HistoryService.GetLanguage()

	result, err := h.PromptService.Generate(c.Request.Context(), existing.OriginalRequest, language, c.Query("taskId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if err := h.HistoryService.Add(*result); err != nil {
		h.logger.Error("failed to persist regenerated result", map[string]interface{}{
			"result_id": result.ID,
			"error":     err.Error(),
		})
	}

	h.response.Created(c, result, "Prompt regenerated")
}

// ListPrompts handles GET /api/prompts.
func (h *Handler) ListPrompts(c *gin.Context) {
	h.response.Success(c, h.HistoryService.List())
}

// GetPrompt handles GET /api/prompts/:id.
func (h *Handler) GetPrompt(c *gin.Context) {
	result, err := h.HistoryService.Get(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.response.Success(c, result)
}

// DeletePrompt handles DELETE /api/prompts/:id.
func (h *Handler) DeletePrompt(c *gin.Context) {
	if err := h.HistoryService.Delete(c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.response.Success(c, nil, "Prompt deleted")
}

// SuggestDetailsRequest is the body for the detail suggestion call.
type SuggestDetailsRequest struct {
	Topic string `json:"topic"`
	Style string `json:"style"`
}

// SuggestDetails handles POST /api/prompts/suggest. Best-effort: failures
// come back as an empty suggestion, never an error.
func (h *Handler) SuggestDetails(c *gin.Context) {
	var req SuggestDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	details := h.PromptService.SuggestDetails(
		c.Request.Context(), req.Topic, req.Style, h.HistoryService.GetLanguage())

	h.response.Success(c, gin.H{"details": details})
}

// AutoDesign handles POST /api/prompts/auto-design.
func (h *Handler) AutoDesign(c *gin.Context) {
	var req SuggestDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	design, err := h.PromptService.AutoDesign(
		c.Request.Context(), req.Topic, req.Style, h.HistoryService.GetLanguage())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.response.Success(c, design)
}

// GetLanguage handles GET /api/language.
func (h *Handler) GetLanguage(c *gin.Context) {
	h.response.Success(c, gin.H{"language": h.HistoryService.GetLanguage()})
}

// SwitchLanguageRequest is the body for a language switch. Topic and
// Details carry the current (unsubmitted) form fields so they can be
// translated along with the history.
type SwitchLanguageRequest struct {
	Language string `json:"language"`
	Topic    string `json:"topic"`
	Details  string `json:"details"`
}

// SwitchLanguage handles POST /api/language/switch. Translation is
// best-effort per piece; the language tag switches even when every
// translation call fails.
func (h *Handler) SwitchLanguage(c *gin.Context) {
	var req SwitchLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	if !models.IsValidLanguage(req.Language) {
		h.response.BadRequest(c, "unsupported language: "+req.Language)
		return
	}

	if req.Language == h.HistoryService.GetLanguage() {
		h.response.Success(c, services.SwitchLanguageResult{
			Language: req.Language,
			Topic:    req.Topic,
			Details:  req.Details,
			Results:  h.HistoryService.List(),
		})
		return
	}

	result := h.TranslationService.SwitchLanguage(
		c.Request.Context(), req.Topic, req.Details, h.HistoryService.List(), req.Language)

	if err := h.HistoryService.ReplaceAll(result.Results); err != nil {
		h.logger.Error("failed to persist translated history", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := h.HistoryService.SetLanguage(req.Language); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.response.Success(c, result)
}

// GetLLMStatus handles GET /api/llm/status.
func (h *Handler) GetLLMStatus(c *gin.Context) {
	ready, state := h.LLMService.GetProviderStatus()
	h.response.Success(c, gin.H{
		"ready":    ready,
		"state":    state,
		"provider": h.LLMService.GetProviderName(),
		"model":    h.LLMService.GetDefaultModel(),
	})
}

// GetLLMModels handles GET /api/llm/models.
func (h *Handler) GetLLMModels(c *gin.Context) {
	providers := llm.ListProviders()

	modelsByProvider := make(map[string][]string, len(providers))
	for _, name := range providers {
		modelsByProvider[name] = llm.GetSupportedModelsForProvider(name)
	}

	h.response.Success(c, gin.H{
		"providers": providers,
		"models":    modelsByProvider,
	})
}

// UpdateLLMConfigRequest is the body for a provider reconfiguration.
type UpdateLLMConfigRequest struct {
	Provider string            `json:"provider"`
	Config   map[string]string `json:"config"`
}

// UpdateLLMConfig handles PUT /api/llm/config.
func (h *Handler) UpdateLLMConfig(c *gin.Context) {
	var req UpdateLLMConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid request body", err.Error())
		return
	}

	if req.Provider == "" || req.Config == nil {
		h.response.BadRequest(c, "provider and config are required")
		return
	}

	if err := h.LLMService.UpdateProvider(req.Provider, req.Config); err != nil {
		h.response.BadRequest(c, "provider configuration failed", err.Error())
		return
	}

	if err := config.UpdateLLMConfig(req.Provider, req.Config); err != nil {
		h.response.InternalError(c, "failed to persist configuration")
		return
	}

	h.response.Success(c, gin.H{"provider": req.Provider}, "Provider updated")
}

// GetCatalogs handles GET /api/catalogs: the selectable styles, aspect
// ratios and camera motions for the form.
func (h *Handler) GetCatalogs(c *gin.Context) {
	h.response.Success(c, gin.H{
		"styles":       models.VideoStyles,
		"aspectRatios": models.AspectRatios,
		"motions":      models.CameraMotions,
	})
}
