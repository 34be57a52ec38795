// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GenerationMethod records how a post candidate was produced.
type GenerationMethod string

const (
	// MethodAI means the candidate came from a model response parsed as JSON.
	MethodAI GenerationMethod = "ai"

	// MethodHeuristic means the model response could not be parsed as JSON and
	// was split into title/caption/hashtags heuristically.
	MethodHeuristic GenerationMethod = "heuristic"

	// MethodTemplate means the candidate was filled from a local template
	// because no text model was available.
	MethodTemplate GenerationMethod = "template"
)

// PostContent is the raw text of a post candidate before validation.
type PostContent struct {
	Title    string   `json:"title"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
}

// PostCandidate is one generated post variant.
type PostCandidate struct {
	// Variant is the 1-based index of the candidate (1..3).
	Variant int `json:"variant"`

	// Tone labels the stylistic variant: "base", "casual", or "energetic".
	Tone string `json:"tone"`

	// Method records how the candidate was produced.
	Method GenerationMethod `json:"method"`

	Content PostContent `json:"content"`
}

// GenerationResult is the output of the content generation stage.
type GenerationResult struct {
	Status string `json:"status"`

	// Error carries the model failure message when templates were used.
	Error string `json:"error,omitempty"`

	// Candidates always holds exactly three entries.
	Candidates []PostCandidate `json:"candidates"`
}

// TextMetrics holds the measured properties of a validated candidate.
type TextMetrics struct {
	TitleLength   int `json:"title_length"`
	CaptionLength int `json:"caption_length"`
	HashtagCount  int `json:"hashtag_count"`
	EmojiCount    int `json:"emoji_count"`
}

// ValidatedCandidate is a post candidate after validation and cleanup.
type ValidatedCandidate struct {
	Variant int              `json:"variant"`
	Tone    string           `json:"tone"`
	Method  GenerationMethod `json:"method"`

	// Original preserves the content as generated.
	Original PostContent `json:"original"`

	// Content holds the cleaned text: truncated title and caption,
	// normalized and padded hashtags.
	Content PostContent `json:"content"`

	// Issues lists validation problems found in the original content.
	Issues []string `json:"issues"`

	// IsValid holds when Issues is empty.
	IsValid bool `json:"is_valid"`

	// Metrics are measured on the cleaned content.
	Metrics TextMetrics `json:"metrics"`
}
