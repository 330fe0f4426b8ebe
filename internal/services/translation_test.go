// internal/services/translation_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veospark/veospark-server/internal/models"
)

func sampleResult() models.GeneratedPrompt {
	return models.GeneratedPrompt{
		ID:              "result-1",
		Title:           "Rainy Cat",
		VisualPrompt:    "a tabby cat in the rain",
		TechnicalPrompt: "35mm",
		Narration:       "[soft] Rain keeps falling.",
		Characters:      []models.Character{{Name: "Cat", Description: "a wet tabby"}},
		ProductionNote: models.ProductionNote{
			DirectorVision: "quiet melancholy",
			Cinematography: "long takes",
			ArtDirection:   "muted palette",
			SoundDesign:    "rain ambience",
			EditingStyle:   "slow cuts",
		},
		Shots: []models.Shot{
			{ID: "shot-1", Index: 1, VisualPrompt: "wide street", Duration: "5s", Dialogue: "[sad] meow", Characters: []models.Character{}},
			{ID: "shot-2", Index: 2, VisualPrompt: "cat close-up", Duration: "5s", Characters: []models.Character{}},
		},
		Timestamp:       1700000000000,
		OriginalRequest: sampleRequest(),
	}
}

func TestReconcileTranslationMergesByDeclaredIndex(t *testing.T) {
	original := sampleResult()

	// Translated shots arrive in reverse order; declared index wins.
	translated := map[string]interface{}{
		"title":     "비 오는 고양이",
		"narration": "[잔잔한] 비가 계속 내린다.",
		"shots": []interface{}{
			map[string]interface{}{"index": float64(2), "visualPrompt": "고양이 클로즈업"},
			map[string]interface{}{"index": float64(1), "visualPrompt": "넓은 거리", "dialogue": "[슬픈] 야옹"},
		},
	}

	merged := ReconcileTranslation(original, translated)

	assert.Equal(t, "비 오는 고양이", merged.Title)
	assert.Equal(t, "[잔잔한] 비가 계속 내린다.", merged.Narration)

	require.Len(t, merged.Shots, 2)
	assert.Equal(t, "넓은 거리", merged.Shots[0].VisualPrompt)
	assert.Equal(t, "[슬픈] 야옹", merged.Shots[0].Dialogue)
	assert.Equal(t, "고양이 클로즈업", merged.Shots[1].VisualPrompt)

	// Identifiers, durations and the request never change.
	assert.Equal(t, "shot-1", merged.Shots[0].ID)
	assert.Equal(t, "shot-2", merged.Shots[1].ID)
	assert.Equal(t, "5s", merged.Shots[0].Duration)
	assert.Equal(t, original.ID, merged.ID)
	assert.Equal(t, original.Timestamp, merged.Timestamp)
	assert.Equal(t, original.OriginalRequest, merged.OriginalRequest)
}

func TestReconcileTranslationFallsBackToPosition(t *testing.T) {
	original := sampleResult()

	// No usable declared indexes; positional matching applies.
	translated := map[string]interface{}{
		"shots": []interface{}{
			map[string]interface{}{"visualPrompt": "첫 번째 장면"},
			map[string]interface{}{"visualPrompt": "두 번째 장면"},
		},
	}

	merged := ReconcileTranslation(original, translated)

	require.Len(t, merged.Shots, 2)
	assert.Equal(t, "첫 번째 장면", merged.Shots[0].VisualPrompt)
	assert.Equal(t, "두 번째 장면", merged.Shots[1].VisualPrompt)
}

func TestReconcileTranslationEmptyShotsKeepsOriginals(t *testing.T) {
	original := sampleResult()

	translated := map[string]interface{}{
		"title": "비 오는 고양이",
		"shots": []interface{}{},
	}

	merged := ReconcileTranslation(original, translated)

	require.Len(t, merged.Shots, len(original.Shots))
	assert.Equal(t, original.Shots, merged.Shots)
}

func TestReconcileTranslationNeverNullsFields(t *testing.T) {
	original := sampleResult()

	translated := map[string]interface{}{
		"title":     "",
		"narration": "   ",
		"shots": []interface{}{
			map[string]interface{}{"index": float64(1), "visualPrompt": ""},
		},
	}

	merged := ReconcileTranslation(original, translated)

	assert.Equal(t, original.Title, merged.Title)
	assert.Equal(t, original.Narration, merged.Narration)
	assert.Equal(t, original.Shots[0].VisualPrompt, merged.Shots[0].VisualPrompt)
}

func TestReconcileTranslationProductionNotePerField(t *testing.T) {
	original := sampleResult()

	translated := map[string]interface{}{
		"productionNote": map[string]interface{}{
			"directorVision": "조용한 우울함",
		},
	}

	merged := ReconcileTranslation(original, translated)

	assert.Equal(t, "조용한 우울함", merged.ProductionNote.DirectorVision)
	assert.Equal(t, original.ProductionNote.Cinematography, merged.ProductionNote.Cinematography)
	assert.Equal(t, original.ProductionNote.EditingStyle, merged.ProductionNote.EditingStyle)
}

func TestTranslateResultFallsBackOnProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("translation service down")}
	service := NewTranslationService(newTestLLMService(provider))

	original := sampleResult()
	translated, ok := service.TranslateResult(context.Background(), original, models.LanguageKorean)

	assert.False(t, ok)
	assert.Equal(t, original, translated)
}

func TestTranslateResultFallsBackOnUnparseableResponse(t *testing.T) {
	provider := &fakeProvider{response: "I will not translate that."}
	service := NewTranslationService(newTestLLMService(provider))

	original := sampleResult()
	translated, ok := service.TranslateResult(context.Background(), original, models.LanguageKorean)

	assert.False(t, ok)
	assert.Equal(t, original, translated)
}

func TestTranslateTextStripsWrappingQuotes(t *testing.T) {
	provider := &fakeProvider{response: "\"비 오는 도시\""}
	service := NewTranslationService(newTestLLMService(provider))

	out, err := service.TranslateText(context.Background(), "a rainy city", models.LanguageKorean)
	require.NoError(t, err)
	assert.Equal(t, "비 오는 도시", out)
}

func TestTranslateTextEmptyInputSkipsCall(t *testing.T) {
	provider := &fakeProvider{response: "unused"}
	service := NewTranslationService(newTestLLMService(provider))

	out, err := service.TranslateText(context.Background(), "  ", models.LanguageKorean)
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
	assert.Empty(t, provider.requests)
}

func TestSwitchLanguageDegradedPieceKeepsOriginal(t *testing.T) {
	// Every model call fails; all pieces degrade, but the language tag
	// still reflects the requested switch.
	provider := &fakeProvider{err: errors.New("service down")}
	service := NewTranslationService(newTestLLMService(provider))

	original := sampleResult()
	result := service.SwitchLanguage(context.Background(), "a cat in rain", "no details", []models.GeneratedPrompt{original}, models.LanguageKorean)

	assert.Equal(t, models.LanguageKorean, result.Language)
	assert.Equal(t, "a cat in rain", result.Topic)
	assert.Equal(t, "no details", result.Details)
	require.Len(t, result.Results, 1)
	assert.Equal(t, original, result.Results[0])
	assert.Contains(t, result.Degraded, "topic")
	assert.Contains(t, result.Degraded, "details")
	assert.Contains(t, result.Degraded, "results[0]")
}

func TestSwitchLanguageCapsTranslatedResults(t *testing.T) {
	provider := &fakeProvider{err: errors.New("service down")}
	service := NewTranslationService(newTestLLMService(provider))

	history := make([]models.GeneratedPrompt, 8)
	for i := range history {
		history[i] = sampleResult()
	}

	result := service.SwitchLanguage(context.Background(), "topic", "", history, models.LanguageEnglish)

	require.Len(t, result.Results, 8)
	// Only the most recent maxTranslatedResults entries get translation calls.
	degradedResults := 0
	for _, piece := range result.Degraded {
		if piece != "topic" && piece != "details" {
			degradedResults++
		}
	}
	assert.Equal(t, maxTranslatedResults, degradedResults)
}
