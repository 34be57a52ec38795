// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"google.golang.org/genai"

	"github.com/meshint/postcraft/pkg/types"
)

// TextBackend generates free-form text from a prompt. Implementations may be
// remote models or test fakes.
type TextBackend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const systemInstruction = "You are a creative social media content creator specializing in gaming content. " +
	"Generate engaging Turkish content for Instagram."

var promptTemplate = template.Must(template.New("post").Parse(
	`Generate an engaging Turkish Instagram post for a mobile game with the following information:

Trending Keywords: {{.Keywords}}
Game Description: {{.GameSummary}}
Visual Elements: {{.Captions}}
Video Content Summary: {{.VideoSummary}}

Create a post with:
1. A catchy title (max 60 characters)
2. An engaging caption (max 2200 characters) that includes emojis, highlights game features, and ends with a call-to-action
3. Exactly 12 relevant hashtags mixing trending and niche gaming tags

Format the response as JSON with keys: title, caption, hashtags (array)`))

// buildPrompt renders the generation prompt from the trend and understanding
// bundles: the top 5 keywords, the first 300 characters of the game summary,
// the first 3 screenshot captions, and the first 500 transcript characters.
func buildPrompt(trend types.TrendBundle, understanding types.UnderstandingBundle) string {
	var keywords []string
	for i, ks := range trend.TopKeywords {
		if i >= 5 {
			break
		}
		keywords = append(keywords, ks.Keyword)
	}

	var captions []string
	for i, c := range understanding.Full.Screenshots.Captions {
		if i >= 3 {
			break
		}
		captions = append(captions, c.Caption)
	}

	data := struct {
		Keywords, GameSummary, Captions, VideoSummary string
	}{
		Keywords:     strings.Join(keywords, ", "),
		GameSummary:  truncateRunes(understanding.Summary, 300),
		Captions:     strings.Join(captions, ", "),
		VideoSummary: truncateRunes(understanding.Full.Video.Transcript, 500),
	}

	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, data); err != nil {
		// Template and data are static; execution cannot fail at runtime.
		panic(err)
	}
	return sb.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// GeminiWriter generates post text through the Gemini API.
type GeminiWriter struct {
	client *genai.Client
	model  string
}

// NewGeminiWriter creates a writer, or returns nil when no API key is
// configured so generation falls back to templates.
func NewGeminiWriter(ctx context.Context, cfg types.GenerationConfig) (*GeminiWriter, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiWriter{client: client, model: cfg.Model}, nil
}

// Generate sends the prompt and returns the raw model response.
func (g *GeminiWriter) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(systemInstruction + "\n\n" + prompt),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generating post text: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}
