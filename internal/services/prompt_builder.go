// internal/services/prompt_builder.go
package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/veospark/veospark-server/internal/models"
)

// shotCountAuto is the sentinel target meaning "let the generator decide".
const shotCountAuto = 0

// defaultNarrationWords is used when the total duration cannot be parsed.
const defaultNarrationWords = 60

// narrationWordsPerSecond approximates a natural voiceover speaking rate.
const narrationWordsPerSecond = 2.5

// GenerationPlan carries the numeric targets derived from a request.
type GenerationPlan struct {
	TotalSeconds   float64
	CutSeconds     float64
	TargetShots    int
	NarrationWords int
}

// PlanGeneration derives shot-count and narration-length targets from the
// request's free-text durations.
func PlanGeneration(req *models.PromptRequest) GenerationPlan {
	plan := GenerationPlan{
		TotalSeconds: ParseDurationSeconds(req.TotalDuration),
		CutSeconds:   ParseDurationSeconds(req.CutDuration),
		TargetShots:  shotCountAuto,
	}

	if plan.TotalSeconds > 0 && plan.CutSeconds > 0 {
		plan.TargetShots = int(math.Floor(plan.TotalSeconds / plan.CutSeconds))
		if plan.TargetShots < 1 {
			plan.TargetShots = 1
		}
	}

	if plan.TotalSeconds > 0 {
		plan.NarrationWords = int(math.Round(plan.TotalSeconds * narrationWordsPerSecond))
	} else {
		plan.NarrationWords = defaultNarrationWords
	}

	return plan
}

// buildGenerationSystemPrompt produces the fixed behavioral ruleset for a
// generation call. Structural field names stay in English regardless of the
// output language; only content values are rendered in the target language.
func buildGenerationSystemPrompt(language string) string {
	languageName := models.LanguageName(language)

	var b strings.Builder
	b.WriteString("You are an expert video production team (director, cinematographer, art director, sound designer, editor) ")
	b.WriteString("that turns a short concept into a complete multi-shot video generation prompt.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Respond with a single JSON object and nothing else. No markdown fences, no commentary.\n")
	b.WriteString("2. All JSON field names MUST be in English exactly as specified in the schema below.\n")
	fmt.Fprintf(&b, "3. All content values (title, prompts, narration, dialogue, notes) MUST be written in %s.\n", languageName)
	b.WriteString("4. Honor the requested shot count and narration word count as closely as possible.\n")
	b.WriteString("5. Describe observable visual attributes (age range, build, clothing, expression) instead of subjective or affective labels.\n")
	b.WriteString("6. Never depict real public figures or disallowed content.\n")
	b.WriteString("7. Narration and dialogue carry bracketed emotion/tone tags, e.g. \"[calm] The rain keeps falling.\".\n\n")
	b.WriteString("Schema:\n")
	b.WriteString(`{
  "title": "string",
  "visualPrompt": "string",
  "technicalPrompt": "string",
  "negativePrompt": "string",
  "narration": "string",
  "characters": [{"name": "string", "description": "string"}],
  "productionNote": {
    "directorVision": "string",
    "cinematography": "string",
    "artDirection": "string",
    "soundDesign": "string",
    "editingStyle": "string"
  },
  "shots": [{
    "index": 1,
    "visualPrompt": "string",
    "technicalPrompt": "string",
    "duration": "string",
    "characters": [{"name": "string", "description": "string"}],
    "dialogue": "string",
    "lipSync": "string",
    "bgm": "string",
    "sfx": "string"
  }]
}`)

	return b.String()
}

// buildGenerationUserPrompt produces the variable content block carrying
// the concrete request values and computed targets.
func buildGenerationUserPrompt(req *models.PromptRequest, plan GenerationPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Visual style: %s\n", req.Style)
	fmt.Fprintf(&b, "Aspect ratio: %s\n", req.AspectRatio)
	fmt.Fprintf(&b, "Camera motion: %s\n", strings.Join(req.Motion, ", "))
	fmt.Fprintf(&b, "Total duration: %s\n", req.TotalDuration)
	fmt.Fprintf(&b, "Cut duration per shot: %s\n", req.CutDuration)

	if req.Details != "" {
		fmt.Fprintf(&b, "Additional details: %s\n", req.Details)
	}

	if plan.TargetShots > shotCountAuto {
		fmt.Fprintf(&b, "\nProduce exactly %d shots. Every shot's duration is %s.\n",
			plan.TargetShots, req.CutDuration)
	} else {
		b.WriteString("\nChoose a natural number of shots for the concept.\n")
	}

	fmt.Fprintf(&b, "Write a narration script of approximately %d words.\n", plan.NarrationWords)

	return b.String()
}

// buildSuggestionPrompts produces the instruction pair for the best-effort
// detail suggestion call.
func buildSuggestionPrompts(topic, style, language string) (systemPrompt, userPrompt string) {
	languageName := models.LanguageName(language)

	systemPrompt = fmt.Sprintf(
		"You are a creative director brainstorming visual details for a short video. "+
			"Reply with 2-3 concise sentences of concrete, filmable detail suggestions in %s. "+
			"Plain text only, no lists, no preamble.", languageName)

	userPrompt = fmt.Sprintf("Topic: %s\nVisual style: %s", topic, style)
	return systemPrompt, userPrompt
}

// buildAutoDesignPrompts produces the instruction pair for the cinematic
// auto-design call, which fills the details field and picks camera motions.
func buildAutoDesignPrompts(topic, style, language string, motionOptions []string) (systemPrompt, userPrompt string) {
	languageName := models.LanguageName(language)

	var b strings.Builder
	b.WriteString("You are a seasoned film director designing the cinematic treatment for a short video.\n")
	b.WriteString("Respond with a single JSON object and nothing else:\n")
	b.WriteString(`{"details": "string", "motion": ["string"]}` + "\n")
	fmt.Fprintf(&b, "The details value is 2-4 sentences of concrete art direction written in %s.\n", languageName)
	b.WriteString("The motion value is 1-3 entries picked verbatim from the allowed list.\n")
	fmt.Fprintf(&b, "Allowed camera motions: %s", strings.Join(motionOptions, ", "))
	systemPrompt = b.String()

	userPrompt = fmt.Sprintf("Topic: %s\nVisual style: %s", topic, style)
	return systemPrompt, userPrompt
}
