// internal/services/coerce.go
package services

import (
	"time"

	"github.com/veospark/veospark-server/internal/models"
	"github.com/veospark/veospark-server/internal/utils"
)

// CoerceGeneratedPrompt maps the untyped object recovered from a generation
// response onto the strict result shape. Every field access is defaulted:
// structurally missing or mistyped fields never raise, they fall back to
// empty strings, empty lists or the production-note placeholder. Shot
// durations are forced to the request's cut duration no matter what the
// generator proposed, and identifiers are always assigned locally.
func CoerceGeneratedPrompt(raw map[string]interface{}, req models.PromptRequest) *models.GeneratedPrompt {
	result := &models.GeneratedPrompt{
		ID:              utils.NewID(),
		Title:           asString(raw["title"]),
		VisualPrompt:    asString(raw["visualPrompt"]),
		TechnicalPrompt: asString(raw["technicalPrompt"]),
		NegativePrompt:  asString(raw["negativePrompt"]),
		Narration:       asString(raw["narration"]),
		Characters:      coerceCharacters(raw["characters"]),
		ProductionNote:  coerceProductionNote(raw["productionNote"]),
		Shots:           coerceShots(raw["shots"], req.CutDuration),
		Timestamp:       time.Now().UnixMilli(),
		OriginalRequest: req,
	}

	return result
}

func coerceShots(value interface{}, cutDuration string) []models.Shot {
	items, ok := value.([]interface{})
	if !ok {
		return []models.Shot{}
	}

	shots := make([]models.Shot, 0, len(items))
	for position, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			entry = map[string]interface{}{}
		}
		shots = append(shots, coerceShot(entry, position, cutDuration))
	}

	return shots
}

func coerceShot(entry map[string]interface{}, position int, cutDuration string) models.Shot {
	index := position + 1
	if declared, ok := asInt(entry["index"]); ok {
		index = declared
	}

	return models.Shot{
		ID:              utils.NewID(),
		Index:           index,
		VisualPrompt:    asString(entry["visualPrompt"]),
		TechnicalPrompt: asString(entry["technicalPrompt"]),
		Duration:        cutDuration,
		Characters:      coerceCharacters(entry["characters"]),
		Dialogue:        asString(entry["dialogue"]),
		LipSync:         asString(entry["lipSync"]),
		BGM:             asString(entry["bgm"]),
		SFX:             asString(entry["sfx"]),
	}
}

func coerceCharacters(value interface{}) []models.Character {
	items, ok := value.([]interface{})
	if !ok {
		return []models.Character{}
	}

	characters := make([]models.Character, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		characters = append(characters, models.Character{
			Name:        asString(entry["name"]),
			Description: asString(entry["description"]),
		})
	}

	return characters
}

func coerceProductionNote(value interface{}) models.ProductionNote {
	note := models.DefaultProductionNote()

	entry, ok := value.(map[string]interface{})
	if !ok {
		return note
	}

	if v := asString(entry["directorVision"]); v != "" {
		note.DirectorVision = v
	}
	if v := asString(entry["cinematography"]); v != "" {
		note.Cinematography = v
	}
	if v := asString(entry["artDirection"]); v != "" {
		note.ArtDirection = v
	}
	if v := asString(entry["soundDesign"]); v != "" {
		note.SoundDesign = v
	}
	if v := asString(entry["editingStyle"]); v != "" {
		note.EditingStyle = v
	}

	return note
}

func asString(value interface{}) string {
	s, _ := value.(string)
	return s
}

func asInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

func asStringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
