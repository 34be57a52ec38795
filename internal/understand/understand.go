// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package understand builds a content brief from the gameplay video,
// screenshots, and the game description. Captioning and transcription go
// through pluggable backends; when a backend is missing or fails the stage
// substitutes placeholders instead of failing.
package understand

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meshint/postcraft/pkg/types"
)

const (
	maxTranscriptChars  = 4000
	maxDescriptionChars = 4000
	maxSummaryChars     = 500

	placeholderNoImages     = "No screenshot images available for analysis"
	placeholderCaption      = "Image captioning unavailable"
	placeholderNoVideo      = "No video available for analysis"
	placeholderNoTranscript = "No audio transcript available"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".bmp": true, ".gif": true}
var videoExts = map[string]bool{".mp4": true, ".avi": true, ".mov": true, ".mkv": true, ".webm": true}

// ImageCaptioner describes an image in one or two sentences.
type ImageCaptioner interface {
	Caption(ctx context.Context, imagePath string) (string, error)
}

// Transcriber produces a speech transcript for a video file.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) (string, error)
}

// Frame is one image sampled from a video.
type Frame struct {
	Path         string
	TimestampSec float64
}

// FrameExtractor samples still frames from a video into outDir.
type FrameExtractor interface {
	Extract(ctx context.Context, videoPath, outDir string, intervalSec float64, maxFrames int) ([]Frame, error)
}

// Deps bundles the understanding backends. Any field may be nil.
type Deps struct {
	Captioner   ImageCaptioner
	Transcriber Transcriber
	Frames      FrameExtractor
}

// Analyze inspects all inputs and assembles the understanding bundle.
// workDir receives temporary frame images. The stage always reports Status
// "success"; backend failures are recorded in Error and replaced with
// placeholders.
func Analyze(ctx context.Context, in types.Inputs, deps Deps, cfg types.UnderstandingConfig, workDir string, w io.Writer) types.UnderstandingBundle {
	var degraded []string

	screenshots := analyzeScreenshots(ctx, in.ScreenshotDir, deps.Captioner, cfg, &degraded, w)
	video := analyzeVideo(ctx, in.GameplayDir, deps, cfg, workDir, &degraded, w)
	text := analyzeText(in, w)

	bundle := types.UnderstandingBundle{
		Status: "success",
		Full: types.UnderstandingFull{
			Screenshots: screenshots,
			Video:       video,
			Text:        text,
		},
		Summary: summarize(text.Description),
	}
	if len(degraded) > 0 {
		bundle.Error = strings.Join(degraded, "; ")
	}
	return bundle
}

func analyzeScreenshots(ctx context.Context, dir string, captioner ImageCaptioner, cfg types.UnderstandingConfig, degraded *[]string, w io.Writer) types.ScreenshotInsights {
	files := listByExt(dir, imageExts)

	max := cfg.MaxScreenshots
	if max <= 0 {
		max = 20
	}
	if len(files) > max {
		files = files[:max]
	}

	var captions []types.ImageCaption
	for _, path := range files {
		caption := captionOrPlaceholder(ctx, captioner, path, degraded)
		captions = append(captions, types.ImageCaption{
			File:    filepath.Base(path),
			Caption: caption,
			Path:    path,
		})
		fmt.Fprintf(w, "  captioned %s\n", filepath.Base(path))
	}

	if len(captions) == 0 {
		captions = append(captions, types.ImageCaption{
			File:    "no_images_found",
			Caption: placeholderNoImages,
		})
	}
	return types.ScreenshotInsights{Count: len(captions), Captions: captions}
}

func analyzeVideo(ctx context.Context, dir string, deps Deps, cfg types.UnderstandingConfig, workDir string, degraded *[]string, w io.Writer) types.VideoInsights {
	videos := listByExt(dir, videoExts)
	if len(videos) == 0 {
		fmt.Fprintf(w, "  no video found in %s\n", dir)
		return types.VideoInsights{Transcript: placeholderNoVideo}
	}
	videoPath := videos[0]

	insights := types.VideoInsights{File: filepath.Base(videoPath)}

	if deps.Transcriber != nil {
		transcript, err := deps.Transcriber.Transcribe(ctx, videoPath)
		if err != nil {
			*degraded = append(*degraded, fmt.Sprintf("transcription: %v", err))
			insights.Transcript = placeholderNoTranscript
		} else {
			insights.Transcript = truncate(transcript, maxTranscriptChars)
		}
	} else {
		insights.Transcript = placeholderNoTranscript
	}

	if deps.Frames != nil {
		framesDir := filepath.Join(workDir, "frames")
		interval := cfg.FrameInterval.Seconds()
		if interval <= 0 {
			interval = 2
		}
		maxFrames := cfg.MaxFrames
		if maxFrames <= 0 {
			maxFrames = 20
		}

		frames, err := deps.Frames.Extract(ctx, videoPath, framesDir, interval, maxFrames)
		if err != nil {
			*degraded = append(*degraded, fmt.Sprintf("frame extraction: %v", err))
		}
		for _, fr := range frames {
			caption := captionOrPlaceholder(ctx, deps.Captioner, fr.Path, degraded)
			insights.Frames = append(insights.Frames, types.FrameCaption{
				File:         filepath.Base(fr.Path),
				TimestampSec: fr.TimestampSec,
				Caption:      caption,
				Path:         fr.Path,
			})
		}
		fmt.Fprintf(w, "  extracted %d frames from %s\n", len(insights.Frames), insights.File)
	}

	return insights
}

func analyzeText(in types.Inputs, w io.Writer) types.TextInsights {
	insights := types.TextInsights{}

	data, err := os.ReadFile(in.GameFile)
	if err != nil {
		fmt.Fprintf(w, "  warning: could not read game description: %v\n", err)
		insights.Description = "Game description file not found"
	} else {
		insights.Description = truncate(string(data), maxDescriptionChars)
	}

	if kwData, err := os.ReadFile(in.KeywordsFile); err == nil {
		content := string(kwData)
		var parts []string
		if strings.Contains(content, ",") {
			parts = strings.Split(content, ",")
		} else {
			parts = strings.Split(content, "\n")
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				insights.Keywords = append(insights.Keywords, p)
			}
		}
	}
	return insights
}

func captionOrPlaceholder(ctx context.Context, captioner ImageCaptioner, path string, degraded *[]string) string {
	if captioner == nil {
		return placeholderCaption
	}
	caption, err := captioner.Caption(ctx, path)
	if err != nil {
		*degraded = append(*degraded, fmt.Sprintf("caption %s: %v", filepath.Base(path), err))
		return "Failed to caption image"
	}
	return caption
}

// listByExt returns files in dir whose extension matches exts, sorted by
// name so runs are reproducible.
func listByExt(dir string, exts map[string]bool) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if exts[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}

func summarize(description string) string {
	runes := []rune(description)
	if len(runes) > maxSummaryChars {
		return string(runes[:maxSummaryChars]) + "..."
	}
	return description
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
