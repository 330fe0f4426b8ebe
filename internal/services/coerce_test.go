// internal/services/coerce_test.go
package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veospark/veospark-server/internal/models"
)

func sampleRequest() models.PromptRequest {
	return models.PromptRequest{
		Topic:         "a cat in rain",
		Style:         "Cinematic",
		AspectRatio:   "16:9",
		Motion:        []string{"Static", "Pan"},
		TotalDuration: "10s",
		CutDuration:   "5s",
	}
}

func TestCoerceGeneratedPromptFullResponse(t *testing.T) {
	raw := map[string]interface{}{
		"title":           "Rainy Cat",
		"visualPrompt":    "a tabby cat under an awning",
		"technicalPrompt": "35mm, shallow depth of field",
		"negativePrompt":  "blurry, low quality",
		"narration":       "[soft] Rain falls on the empty street.",
		"characters": []interface{}{
			map[string]interface{}{"name": "Cat", "description": "a wet tabby"},
		},
		"productionNote": map[string]interface{}{
			"directorVision": "melancholy and quiet",
			"cinematography": "static frames, long takes",
			"artDirection":   "muted colors",
			"soundDesign":    "rain ambience",
			"editingStyle":   "slow cuts",
		},
		"shots": []interface{}{
			map[string]interface{}{
				"index":        float64(1),
				"visualPrompt": "wide shot of the street",
				"duration":     "99s",
				"bgm":          "soft piano",
			},
			map[string]interface{}{
				"index":        float64(2),
				"visualPrompt": "close-up of the cat",
				"duration":     "42s",
			},
		},
	}

	result := CoerceGeneratedPrompt(raw, sampleRequest())

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "Rainy Cat", result.Title)
	assert.Equal(t, "melancholy and quiet", result.ProductionNote.DirectorVision)
	assert.Equal(t, sampleRequest(), result.OriginalRequest)
	assert.Positive(t, result.Timestamp)

	require.Len(t, result.Shots, 2)
	for _, shot := range result.Shots {
		// The generator's proposed durations are ignored.
		assert.Equal(t, "5s", shot.Duration)
		assert.NotEmpty(t, shot.ID)
	}
	assert.Equal(t, 1, result.Shots[0].Index)
	assert.Equal(t, "soft piano", result.Shots[0].BGM)
}

func TestCoerceGeneratedPromptEmptyObject(t *testing.T) {
	result := CoerceGeneratedPrompt(map[string]interface{}{}, sampleRequest())

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "", result.Title)
	assert.Equal(t, "", result.Narration)
	assert.Empty(t, result.Shots)
	assert.Empty(t, result.Characters)
	assert.Equal(t, models.DefaultProductionNote(), result.ProductionNote)
}

func TestCoerceGeneratedPromptMistypedFields(t *testing.T) {
	raw := map[string]interface{}{
		"title":          float64(42),
		"characters":     "not an array",
		"productionNote": []interface{}{"not an object"},
		"shots": []interface{}{
			"not an object",
			map[string]interface{}{"visualPrompt": "ok"},
		},
	}

	result := CoerceGeneratedPrompt(raw, sampleRequest())

	assert.Equal(t, "", result.Title)
	assert.Empty(t, result.Characters)
	assert.Equal(t, models.DefaultProductionNote(), result.ProductionNote)

	require.Len(t, result.Shots, 2)
	// A non-object entry still yields a defaulted shot at its position.
	assert.Equal(t, 1, result.Shots[0].Index)
	assert.Equal(t, "5s", result.Shots[0].Duration)
	assert.Equal(t, "ok", result.Shots[1].VisualPrompt)
}

func TestCoerceGeneratedPromptMissingIndexUsesPosition(t *testing.T) {
	raw := map[string]interface{}{
		"shots": []interface{}{
			map[string]interface{}{"visualPrompt": "first"},
			map[string]interface{}{"visualPrompt": "second"},
		},
	}

	result := CoerceGeneratedPrompt(raw, sampleRequest())

	require.Len(t, result.Shots, 2)
	assert.Equal(t, 1, result.Shots[0].Index)
	assert.Equal(t, 2, result.Shots[1].Index)
}

func TestCoerceGeneratedPromptIdempotent(t *testing.T) {
	raw := map[string]interface{}{
		"title":     "Rainy Cat",
		"narration": "[soft] rain",
		"shots": []interface{}{
			map[string]interface{}{"index": float64(1), "visualPrompt": "street", "dialogue": "[sad] meow"},
		},
	}

	first := CoerceGeneratedPrompt(raw, sampleRequest())

	// Round-trip the coerced result back through JSON and coerce again.
	data, err := json.Marshal(first)
	require.NoError(t, err)
	var asRaw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &asRaw))

	second := CoerceGeneratedPrompt(asRaw, sampleRequest())

	// Identifiers and timestamps are reassigned; everything else matches.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Narration, second.Narration)
	assert.Equal(t, first.ProductionNote, second.ProductionNote)
	require.Len(t, second.Shots, len(first.Shots))
	for i := range first.Shots {
		assert.Equal(t, first.Shots[i].Index, second.Shots[i].Index)
		assert.Equal(t, first.Shots[i].VisualPrompt, second.Shots[i].VisualPrompt)
		assert.Equal(t, first.Shots[i].Dialogue, second.Shots[i].Dialogue)
		assert.Equal(t, first.Shots[i].Duration, second.Shots[i].Duration)
	}
}
