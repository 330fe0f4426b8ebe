// internal/services/translation_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/veospark/veospark-server/internal/llm"
	"github.com/veospark/veospark-server/internal/models"
	"github.com/veospark/veospark-server/internal/utils"
)

// maxTranslatedResults caps how many history entries are translated on a
// language switch. Older entries keep their content and are translated
// lazily if ever regenerated.
const maxTranslatedResults = 5

const translationTemperature = 0.3

// TranslationService translates free text and whole result trees between
// the supported languages, reconciling translated structures back onto the
// originals without ever losing content.
type TranslationService struct {
	LLMService *LLMService
	logger     *utils.Logger
}

// SwitchLanguageResult is the outcome of a language switch. Degraded lists
// the pieces whose translation failed and fell back to original content;
// the language tag switches regardless.
type SwitchLanguageResult struct {
	Language string                   `json:"language"`
	Topic    string                   `json:"topic"`
	Details  string                   `json:"details"`
	Results  []models.GeneratedPrompt `json:"results"`
	Degraded []string                 `json:"degraded,omitempty"`
}

// NewTranslationService creates the translation service.
func NewTranslationService(llmService *LLMService) *TranslationService {
	return &TranslationService{
		LLMService: llmService,
		logger:     utils.GetLogger(),
	}
}

// TranslateText translates a single piece of free text. Empty input is
// returned as-is without a model call.
func (s *TranslationService) TranslateText(ctx context.Context, text, targetLanguage string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	languageName := models.LanguageName(targetLanguage)

	resp, err := s.LLMService.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: fmt.Sprintf(
			"Translate the user's text into %s. Reply with the translation only: no quotes, no explanations.",
			languageName),
		Prompt:      text,
		Temperature: translationTemperature,
	})
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(resp.Text)
	// Models occasionally wrap the translation in quotes anyway.
	out = strings.Trim(out, "\"“”")
	return out, nil
}

// TranslateResult translates a whole result tree into targetLanguage and
// reconciles it onto the original. Strictly best-effort: on any failure the
// original is returned unchanged.
func (s *TranslationService) TranslateResult(ctx context.Context, original models.GeneratedPrompt, targetLanguage string) (models.GeneratedPrompt, bool) {
	payload, err := json.Marshal(translatableContent(original))
	if err != nil {
		return original, false
	}

	languageName := models.LanguageName(targetLanguage)

	resp, err := s.LLMService.CompleteText(ctx, llm.CompletionRequest{
		SystemPrompt: fmt.Sprintf(
			"Translate every string value in the user's JSON document into %s. "+
				"Keep all field names, numbers and the array structure exactly as they are. "+
				"Respond with the translated JSON object only.", languageName),
		Prompt:      string(payload),
		Temperature: translationTemperature,
		JSONMode:    true,
	})
	if err != nil {
		s.logger.Warn("result translation call failed, keeping original", map[string]interface{}{
			"result_id": original.ID,
			"error":     err.Error(),
		})
		return original, false
	}

	translated, err := ExtractJSONObject(resp.Text)
	if err != nil {
		s.logger.Warn("translated result could not be parsed, keeping original", map[string]interface{}{
			"result_id": original.ID,
		})
		return original, false
	}

	return ReconcileTranslation(original, translated), true
}

// translatableContent projects a result down to its translatable fields,
// including each shot's declared index so the reconciler can match entries.
func translatableContent(result models.GeneratedPrompt) map[string]interface{} {
	shots := make([]map[string]interface{}, 0, len(result.Shots))
	for _, shot := range result.Shots {
		shots = append(shots, map[string]interface{}{
			"index":           shot.Index,
			"visualPrompt":    shot.VisualPrompt,
			"technicalPrompt": shot.TechnicalPrompt,
			"characters":      shot.Characters,
			"dialogue":        shot.Dialogue,
			"lipSync":         shot.LipSync,
			"bgm":             shot.BGM,
			"sfx":             shot.SFX,
		})
	}

	return map[string]interface{}{
		"title":           result.Title,
		"visualPrompt":    result.VisualPrompt,
		"technicalPrompt": result.TechnicalPrompt,
		"negativePrompt":  result.NegativePrompt,
		"narration":       result.Narration,
		"characters":      result.Characters,
		"productionNote":  result.ProductionNote,
		"shots":           shots,
	}
}

// ReconcileTranslation merges a translated parallel structure back onto the
// original result. Identifiers, timestamps, durations and the originating
// request always come from the original; translated text is taken
// field-by-field when present and non-empty. The output has exactly the
// original's shots, in order, matched against translated entries first by
// declared index, then by array position.
func ReconcileTranslation(original models.GeneratedPrompt, translated map[string]interface{}) models.GeneratedPrompt {
	merged := original

	merged.Title = pickString(translated["title"], original.Title)
	merged.VisualPrompt = pickString(translated["visualPrompt"], original.VisualPrompt)
	merged.TechnicalPrompt = pickString(translated["technicalPrompt"], original.TechnicalPrompt)
	merged.NegativePrompt = pickString(translated["negativePrompt"], original.NegativePrompt)
	merged.Narration = pickString(translated["narration"], original.Narration)

	if characters := coerceCharacters(translated["characters"]); len(characters) > 0 {
		merged.Characters = characters
	}

	merged.ProductionNote = reconcileProductionNote(original.ProductionNote, translated["productionNote"])

	translatedShots, _ := translated["shots"].([]interface{})
	mergedShots := make([]models.Shot, 0, len(original.Shots))
	for position, originalShot := range original.Shots {
		counterpart := findTranslatedShot(translatedShots, originalShot.Index, position)
		mergedShots = append(mergedShots, reconcileShot(originalShot, counterpart))
	}
	merged.Shots = mergedShots

	return merged
}

// findTranslatedShot locates the translated counterpart of an original
// shot: declared index match first, array position second.
func findTranslatedShot(translatedShots []interface{}, index, position int) map[string]interface{} {
	for _, item := range translatedShots {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if declared, ok := asInt(entry["index"]); ok && declared == index {
			return entry
		}
	}

	if position < len(translatedShots) {
		if entry, ok := translatedShots[position].(map[string]interface{}); ok {
			return entry
		}
	}

	return nil
}

func reconcileShot(original models.Shot, translated map[string]interface{}) models.Shot {
	merged := original
	if translated == nil {
		return merged
	}

	merged.VisualPrompt = pickString(translated["visualPrompt"], original.VisualPrompt)
	merged.TechnicalPrompt = pickString(translated["technicalPrompt"], original.TechnicalPrompt)
	merged.Dialogue = pickString(translated["dialogue"], original.Dialogue)
	merged.LipSync = pickString(translated["lipSync"], original.LipSync)
	merged.BGM = pickString(translated["bgm"], original.BGM)
	merged.SFX = pickString(translated["sfx"], original.SFX)

	if characters := coerceCharacters(translated["characters"]); len(characters) > 0 {
		merged.Characters = characters
	}

	return merged
}

func reconcileProductionNote(original models.ProductionNote, value interface{}) models.ProductionNote {
	entry, ok := value.(map[string]interface{})
	if !ok {
		return original
	}

	merged := original
	merged.DirectorVision = pickString(entry["directorVision"], original.DirectorVision)
	merged.Cinematography = pickString(entry["cinematography"], original.Cinematography)
	merged.ArtDirection = pickString(entry["artDirection"], original.ArtDirection)
	merged.SoundDesign = pickString(entry["soundDesign"], original.SoundDesign)
	merged.EditingStyle = pickString(entry["editingStyle"], original.EditingStyle)
	return merged
}

// pickString returns the translated value when present and non-empty, else
// the original. A field that had content is never nulled out.
func pickString(translated interface{}, original string) string {
	if s, ok := translated.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return original
}

// SwitchLanguage translates the current form fields and the most recent
// history results into targetLanguage. The individual translation calls run
// concurrently; each piece that fails falls back to its original content
// and is recorded in Degraded. The language tag always switches.
func (s *TranslationService) SwitchLanguage(ctx context.Context, topic, details string, results []models.GeneratedPrompt, targetLanguage string) SwitchLanguageResult {
	out := SwitchLanguageResult{
		Language: targetLanguage,
		Topic:    topic,
		Details:  details,
		Results:  make([]models.GeneratedPrompt, len(results)),
	}
	copy(out.Results, results)

	var wg sync.WaitGroup
	var mu sync.Mutex

	markDegraded := func(piece string) {
		mu.Lock()
		out.Degraded = append(out.Degraded, piece)
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		translated, err := s.TranslateText(ctx, topic, targetLanguage)
		if err != nil {
			markDegraded("topic")
			return
		}
		mu.Lock()
		out.Topic = translated
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		translated, err := s.TranslateText(ctx, details, targetLanguage)
		if err != nil {
			markDegraded("details")
			return
		}
		mu.Lock()
		out.Details = translated
		mu.Unlock()
	}()

	limit := min(maxTranslatedResults, len(results))
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			translated, ok := s.TranslateResult(ctx, results[i], targetLanguage)
			if !ok {
				markDegraded(fmt.Sprintf("results[%d]", i))
			}
			mu.Lock()
			out.Results[i] = translated
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	s.logger.Info("language switch finished", map[string]interface{}{
		"language":   targetLanguage,
		"translated": limit,
		"degraded":   len(out.Degraded),
	})

	return out
}
