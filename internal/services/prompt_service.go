// internal/services/prompt_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/veospark/veospark-server/internal/errors"
	"github.com/veospark/veospark-server/internal/llm"
	"github.com/veospark/veospark-server/internal/models"
	"github.com/veospark/veospark-server/internal/utils"
)

const generationTemperature = 0.7

// PromptService runs the generation pipeline: request shaping, the opaque
// model call, resilient extraction and coercion into the strict result shape.
type PromptService struct {
	LLMService      *LLMService
	ProgressService *ProgressService
	logger          *utils.Logger
}

// NewPromptService creates the prompt generation service.
func NewPromptService(llmService *LLMService, progressService *ProgressService) *PromptService {
	return &PromptService{
		LLMService:      llmService,
		ProgressService: progressService,
		logger:          utils.GetLogger(),
	}
}

// Generate turns a request into a coerced GeneratedPrompt.
// Parse failures are terminal and carry the raw model text; the caller
// must not add anything to history on error. taskID is optional and only
// drives progress reporting.
func (s *PromptService) Generate(ctx context.Context, req models.PromptRequest, language, taskID string) (*models.GeneratedPrompt, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	var tracker *ProgressTracker
	if taskID != "" && s.ProgressService != nil {
		// StartTracker resets a settled tracker, so a retry may reuse its
		// task id.
		tracker = s.ProgressService.StartTracker(taskID)
	}

	plan := PlanGeneration(&req)

	s.logger.Info("starting prompt generation", map[string]interface{}{
		"topic":        req.Topic,
		"language":     language,
		"target_shots": plan.TargetShots,
	})

	if tracker != nil {
		tracker.UpdateProgress(10, "Building generation request...")
	}

	resp, err := s.LLMService.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: buildGenerationSystemPrompt(language),
		Prompt:       buildGenerationUserPrompt(&req, plan),
		Temperature:  generationTemperature,
		JSONMode:     true,
	})
	if err != nil {
		if tracker != nil {
			tracker.Fail(err.Error())
		}
		return nil, err
	}

	if tracker != nil {
		tracker.UpdateProgress(70, "Parsing model response...")
	}

	raw, err := ExtractJSONObject(resp.Text)
	if err != nil {
		s.logger.Error("generation response could not be parsed", map[string]interface{}{
			"raw_prefix": truncateForLog(resp.Text, 200),
		})
		if tracker != nil {
			tracker.Fail("model returned an unparseable response")
		}
		return nil, err
	}

	result := CoerceGeneratedPrompt(raw, req)

	if plan.TargetShots > shotCountAuto && len(result.Shots) != plan.TargetShots {
		// Quality defect, not a structural one. The result is kept as-is.
		s.logger.Warn("generator returned a different shot count than requested", map[string]interface{}{
			"requested": plan.TargetShots,
			"returned":  len(result.Shots),
		})
	}

	if tracker != nil {
		tracker.Complete("Generation finished")
	}

	s.logger.Info("prompt generation finished", map[string]interface{}{
		"result_id": result.ID,
		"shots":     len(result.Shots),
	})

	return result, nil
}

// SuggestDetails asks the model for extra visual detail ideas. Strictly
// best-effort: any failure yields an empty string, never an error.
func (s *PromptService) SuggestDetails(ctx context.Context, topic, style, language string) string {
	if strings.TrimSpace(topic) == "" {
		return ""
	}

	systemPrompt, userPrompt := buildSuggestionPrompts(topic, style, language)

	resp, err := s.LLMService.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       userPrompt,
		Temperature:  generationTemperature,
	})
	if err != nil {
		s.logger.Warn("detail suggestion failed, skipping", map[string]interface{}{
			"error": err.Error(),
		})
		return ""
	}

	return strings.TrimSpace(resp.Text)
}

// AutoDesign asks the model for a cinematic treatment: a details paragraph
// plus camera motions picked from the known catalog. Unknown motions are
// filtered out; an empty motion list falls back to the default motion.
func (s *PromptService) AutoDesign(ctx context.Context, topic, style, language string) (*models.CinematicDesign, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, apperrors.NewValidationError("topic is required", nil)
	}

	systemPrompt, userPrompt := buildAutoDesignPrompts(topic, style, language, models.CameraMotions)

	resp, err := s.LLMService.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Prompt:       userPrompt,
		Temperature:  generationTemperature,
		JSONMode:     true,
	})
	if err != nil {
		return nil, err
	}

	raw, err := ExtractJSONObject(resp.Text)
	if err != nil {
		return nil, err
	}

	design := &models.CinematicDesign{
		Details: asString(raw["details"]),
		Motion:  models.FilterCameraMotions(asStringSlice(raw["motion"])),
	}
	if len(design.Motion) == 0 {
		design.Motion = []string{models.DefaultCameraMotion}
	}

	return design, nil
}

func validateRequest(req *models.PromptRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return apperrors.NewValidationError("topic is required", nil)
	}
	if len(req.Motion) == 0 {
		// The motion list always carries at least one element.
		req.Motion = []string{models.DefaultCameraMotion}
	}
	return nil
}

func truncateForLog(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return fmt.Sprintf("%s... (%d bytes total)", text[:limit], len(text))
}
