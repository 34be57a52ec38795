// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package understand

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/meshint/postcraft/pkg/types"
)

const captionPrompt = "Describe this mobile game screenshot in one sentence. " +
	"Focus on what is happening on screen: characters, UI, action."

const transcribePrompt = "Transcribe the speech in this gameplay video. " +
	"Return only the transcript text, no commentary. If there is no speech, return an empty response."

// GeminiAnalyzer captions images and transcribes videos through the Gemini
// API. It implements both ImageCaptioner and Transcriber.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates an analyzer, or returns nil when no API key is
// configured so callers fall back to placeholders.
func NewGeminiAnalyzer(ctx context.Context, cfg types.AIConfig) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client, model: cfg.Model}, nil
}

// Caption generates a one-sentence description of the image.
func (g *GeminiAnalyzer) Caption(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(captionPrompt),
		genai.NewPartFromBytes(data, mimeForImage(imagePath)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("captioning %s: %w", filepath.Base(imagePath), err)
	}
	caption := strings.TrimSpace(result.Text())
	if caption == "" {
		return "", fmt.Errorf("empty caption for %s", filepath.Base(imagePath))
	}
	return caption, nil
}

// Transcribe extracts the speech transcript from a video file.
func (g *GeminiAnalyzer) Transcribe(ctx context.Context, videoPath string) (string, error) {
	data, err := os.ReadFile(videoPath)
	if err != nil {
		return "", fmt.Errorf("reading video: %w", err)
	}

	parts := []*genai.Part{
		genai.NewPartFromText(transcribePrompt),
		genai.NewPartFromBytes(data, mimeForVideo(videoPath)),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcribing %s: %w", filepath.Base(videoPath), err)
	}
	return strings.TrimSpace(result.Text()), nil
}

func mimeForImage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}

func mimeForVideo(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".avi":
		return "video/x-msvideo"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".webm":
		return "video/webm"
	default:
		return "video/mp4"
	}
}
