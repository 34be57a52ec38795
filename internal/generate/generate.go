// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate produces three social media post candidates from the
// trend and understanding bundles. A text model writes the posts when one is
// configured; otherwise the stage falls back to local Turkish templates.
// Either way the caller always receives exactly three candidates.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/meshint/postcraft/pkg/types"
)

const (
	numCandidates = 3
	maxHashtags   = 12

	maxTitleChars   = 60
	maxCaptionChars = 2200
)

// tones label the three variants; the matching instruction is appended to
// the base prompt.
var tones = []struct {
	name        string
	instruction string
}{
	{name: "base"},
	{name: "casual", instruction: "Make this version more casual and friendly."},
	{name: "energetic", instruction: "Make this version more exciting and action-oriented."},
}

// Generate builds exactly three post candidates. backend may be nil. Model
// failures degrade per candidate to templates; the stage itself never fails.
func Generate(ctx context.Context, backend TextBackend, trend types.TrendBundle, understanding types.UnderstandingBundle, w io.Writer) types.GenerationResult {
	result := types.GenerationResult{Status: "success"}

	basePrompt := ""
	if backend != nil {
		basePrompt = buildPrompt(trend, understanding)
	}

	for i := 0; i < numCandidates; i++ {
		tone := tones[i]
		candidate := types.PostCandidate{Variant: i + 1, Tone: tone.name}

		if backend != nil {
			prompt := basePrompt
			if tone.instruction != "" {
				prompt += "\n" + tone.instruction
			}

			raw, err := backend.Generate(ctx, prompt)
			if err != nil {
				fmt.Fprintf(w, "  warning: model generation failed for variant %d: %v\n", i+1, err)
				if result.Error == "" {
					result.Error = err.Error()
				}
			} else {
				content, method := parseResponse(raw)
				candidate.Method = method
				candidate.Content = content
				result.Candidates = append(result.Candidates, candidate)
				fmt.Fprintf(w, "  generated variant %d (%s)\n", i+1, method)
				continue
			}
		}

		candidate.Method = types.MethodTemplate
		candidate.Content = templateContent(i, trend.Hashtags)
		result.Candidates = append(result.Candidates, candidate)
		fmt.Fprintf(w, "  generated variant %d (template)\n", i+1)
	}

	return result
}

// parseResponse interprets a model response as the post JSON, stripping
// markdown code fences first. Unparseable responses are split into
// title/caption heuristically.
func parseResponse(raw string) (types.PostContent, types.GenerationMethod) {
	cleaned := stripFences(raw)

	var payload struct {
		Title    string          `json:"title"`
		Caption  string          `json:"caption"`
		Hashtags json.RawMessage `json:"hashtags"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil && payload.Title != "" && payload.Caption != "" {
		return types.PostContent{
			Title:    payload.Title,
			Caption:  payload.Caption,
			Hashtags: coerceHashtags(payload.Hashtags),
		}, types.MethodAI
	}

	return heuristicContent(cleaned), types.MethodHeuristic
}

// stripFences removes a wrapping markdown code fence, with or without a
// language marker.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// coerceHashtags accepts either a JSON array or a whitespace-separated
// string, prefixes missing '#', and caps at 12.
func coerceHashtags(raw json.RawMessage) []string {
	var tags []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tags); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				tags = strings.Fields(s)
			}
		}
	}

	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		out = append(out, tag)
		if len(out) >= maxHashtags {
			break
		}
	}
	return out
}

// heuristicContent splits a free-form response: first line becomes the
// title, the middle lines the caption, with generic hashtags attached.
func heuristicContent(text string) types.PostContent {
	lines := strings.Split(text, "\n")

	title := "Yeni Oyun Keşfi!"
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		title = truncateRunes(strings.TrimSpace(lines[0]), maxTitleChars)
	}

	caption := truncateRunes(text, maxCaptionChars)
	if len(lines) > 2 {
		caption = truncateRunes(strings.Join(lines[1:len(lines)-1], "\n"), maxCaptionChars)
	}

	return types.PostContent{
		Title:    title,
		Caption:  caption,
		Hashtags: append([]string{}, genericHashtags...),
	}
}
