// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ScoreSource records where a keyword score came from.
type ScoreSource string

const (
	// ScoreProvider means the score was computed from real interest data.
	ScoreProvider ScoreSource = "provider"

	// ScoreFallback means the score was synthesized deterministically because
	// the interest provider was unavailable or returned no data.
	ScoreFallback ScoreSource = "fallback"
)

// KeywordScore is a single keyword with its blended trend score.
type KeywordScore struct {
	// Keyword is the normalized keyword text.
	Keyword string `json:"keyword"`

	// Score is the blended trend score in [0, 100].
	Score float64 `json:"score"`

	// Source says whether the score came from the provider or the fallback.
	Source ScoreSource `json:"source"`
}

// TrendBundle is the output of the trend analysis stage.
type TrendBundle struct {
	// Status is "success" even when every score is a fallback; the stage
	// degrades rather than fails.
	Status string `json:"status"`

	// Error carries the provider failure message when scores are fallbacks.
	Error string `json:"error,omitempty"`

	// KeywordsAnalyzed is the number of keywords that were scored.
	KeywordsAnalyzed int `json:"keywords_analyzed"`

	// TopKeywords holds at most 15 keywords sorted by descending score.
	TopKeywords []KeywordScore `json:"top_keywords"`

	// Hashtags are trend-derived hashtag suggestions (at most 20).
	Hashtags []string `json:"hashtags"`

	// Summary is a one-line human-readable description of the analysis.
	Summary string `json:"summary"`
}
