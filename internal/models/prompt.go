// internal/models/prompt.go
package models

// PromptRequest carries the user-specified generation parameters.
// It is immutable once submitted and is stored verbatim inside the
// resulting GeneratedPrompt so the form can be reconstructed on regenerate.
type PromptRequest struct {
	Topic         string   `json:"topic"`
	Style         string   `json:"style"`
	AspectRatio   string   `json:"aspectRatio"`
	Motion        []string `json:"motion"` // always at least one element
	TotalDuration string   `json:"totalDuration"`
	CutDuration   string   `json:"cutDuration"`
	Details       string   `json:"details,omitempty"`
}

// Character is a name/description pair. Characters have no identity beyond
// their position in the containing list.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Shot is one contiguous cut of the target video.
// ID is assigned locally and never taken from a model response.
// Duration is authoritative from the request's cut duration, not from
// whatever the generator proposed.
type Shot struct {
	ID              string      `json:"id"`
	Index           int         `json:"index"`
	VisualPrompt    string      `json:"visualPrompt"`
	TechnicalPrompt string      `json:"technicalPrompt"`
	Duration        string      `json:"duration"`
	Characters      []Character `json:"characters"`
	Dialogue        string      `json:"dialogue"`
	LipSync         string      `json:"lipSync"`
	BGM             string      `json:"bgm"`
	SFX             string      `json:"sfx"`
}

// ProductionNote is the five-field creative brief attached to every result.
// Fields are defaulted to NoteUnavailable rather than omitted.
type ProductionNote struct {
	DirectorVision string `json:"directorVision"`
	Cinematography string `json:"cinematography"`
	ArtDirection   string `json:"artDirection"`
	SoundDesign    string `json:"soundDesign"`
	EditingStyle   string `json:"editingStyle"`
}

// NoteUnavailable is the placeholder for production-note fields the
// generator did not provide.
const NoteUnavailable = "N/A"

// DefaultProductionNote returns a note with every field set to the placeholder.
func DefaultProductionNote() ProductionNote {
	return ProductionNote{
		DirectorVision: NoteUnavailable,
		Cinematography: NoteUnavailable,
		ArtDirection:   NoteUnavailable,
		SoundDesign:    NoteUnavailable,
		EditingStyle:   NoteUnavailable,
	}
}

// GeneratedPrompt is one completed generation result.
// ID and the shot IDs are assigned at creation and survive translation passes.
type GeneratedPrompt struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	VisualPrompt    string         `json:"visualPrompt"`
	TechnicalPrompt string         `json:"technicalPrompt"`
	NegativePrompt  string         `json:"negativePrompt,omitempty"`
	Narration       string         `json:"narration"`
	Characters      []Character    `json:"characters"`
	ProductionNote  ProductionNote `json:"productionNote"`
	Shots           []Shot         `json:"shots"`
	Timestamp       int64          `json:"timestamp"` // unix milliseconds at coercion time
	OriginalRequest PromptRequest  `json:"originalRequest"`
}

// CinematicDesign is the auto-design suggestion: an extra-details line plus
// a camera plan. Either part may be empty when the model had nothing usable.
type CinematicDesign struct {
	Details string   `json:"details"`
	Motion  []string `json:"motion"`
}
