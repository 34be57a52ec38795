// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finalize assembles the deliverable: the final post JSON and a zip
// package bundling it with the processed images.
package finalize

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/meshint/postcraft/internal/rank"
	"github.com/meshint/postcraft/pkg/types"
)

const (
	finalJSONName = "final_post.json"
	packageName   = "final_package.zip"

	pipelineVersion = "1.0.0"
)

// Document is the packaged post data written to final_post.json.
type Document struct {
	Metadata        Metadata        `json:"metadata"`
	TrendInfo       TrendInfo       `json:"trend_info"`
	Understanding   Understanding   `json:"understanding_brief"`
	PostOptions     []PostOption    `json:"post_options"`
	Assets          Assets          `json:"assets"`
	Recommendations Recommendations `json:"recommendations"`
}

type Metadata struct {
	GeneratedAt     string `json:"generated_at"`
	PipelineVersion string `json:"pipeline_version"`
	QualityScore    int    `json:"quality_score"`
}

type TrendInfo struct {
	KeywordsAnalyzed    int             `json:"keywords_analyzed"`
	TopTrending         []TrendingEntry `json:"top_trending"`
	RecommendedHashtags []string        `json:"recommended_hashtags"`
}

type TrendingEntry struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

type Understanding struct {
	ContentAnalyzed ContentAnalyzed `json:"content_analyzed"`
	KeyInsights     KeyInsights     `json:"key_insights"`
}

type ContentAnalyzed struct {
	Screenshots int `json:"screenshots"`
	VideoFrames int `json:"video_frames"`
	TextWords   int `json:"text_words"`
}

type KeyInsights struct {
	VideoTranscriptPreview string   `json:"video_transcript_preview"`
	ImageCaptionsSample    []string `json:"image_captions_sample"`
	GameSummary            string   `json:"game_summary"`
}

type PostOption struct {
	OptionNumber int               `json:"option_number"`
	Title        string            `json:"title"`
	Caption      string            `json:"caption"`
	Hashtags     []string          `json:"hashtags"`
	Metrics      types.TextMetrics `json:"metrics"`
	QualityNotes []string          `json:"quality_notes"`
}

type Assets struct {
	ImagesDir   string   `json:"images_dir"`
	ImagesCount int      `json:"images_count"`
	ImageFiles  []string `json:"image_files"`
}

type Recommendations struct {
	BestOption     int      `json:"best_option"`
	PostingTime    string   `json:"posting_time"`
	EngagementTips []string `json:"engagement_tips"`
}

var engagementTips = []string{
	"Use the first 3 hashtags for maximum trend visibility",
	"Post during evening hours for better engagement",
	"Include a clear call-to-action in the caption",
	"Use processed images for optimal Instagram display",
}

const readmeContent = `# Social Media Content Package

## Contents
- final_post.json: Complete post data with 3 content options
- images/: Processed images optimized for Instagram (1080x1350)

## Usage
1. Choose one of the 3 post options from final_post.json
2. Use the processed images from the images folder
3. Post during recommended hours for maximum engagement

## Post Options
Each option includes:
- Title (max 60 chars)
- Caption (max 2200 chars)
- 12 optimized hashtags
`

// Finalize writes final_post.json and final_package.zip into outputBase.
func Finalize(trend types.TrendBundle, understanding types.UnderstandingBundle, generation types.GenerationResult, quality types.QualityResult, outputBase string, w io.Writer) (types.FinalizeResult, error) {
	doc := buildDocument(trend, understanding, generation, quality)

	jsonPath := filepath.Join(outputBase, finalJSONName)
	if err := writeJSON(doc, jsonPath); err != nil {
		return types.FinalizeResult{Status: "error", OutputDir: outputBase}, err
	}
	fmt.Fprintf(w, "  wrote %s\n", finalJSONName)

	zipPath := filepath.Join(outputBase, packageName)
	imageCount, err := writePackage(jsonPath, quality.ProcessedImages.OutputDir, zipPath)
	if err != nil {
		return types.FinalizeResult{Status: "error", JSONPath: jsonPath, OutputDir: outputBase}, err
	}
	fmt.Fprintf(w, "  packaged %d images into %s\n", imageCount, packageName)

	var sizeMB float64
	if info, err := os.Stat(zipPath); err == nil {
		sizeMB = math.Round(float64(info.Size())/(1024*1024)*100) / 100
	}

	return types.FinalizeResult{
		Status:        "success",
		JSONPath:      jsonPath,
		PackagePath:   zipPath,
		PackageSizeMB: sizeMB,
		OutputDir:     outputBase,
		ImageCount:    imageCount,
	}, nil
}

func buildDocument(trend types.TrendBundle, understanding types.UnderstandingBundle, generation types.GenerationResult, quality types.QualityResult) Document {
	var options []PostOption
	for i, vc := range quality.ValidatedCandidates {
		options = append(options, PostOption{
			OptionNumber: i + 1,
			Title:        vc.Content.Title,
			Caption:      vc.Content.Caption,
			Hashtags:     rank.Rank(vc.Content.Hashtags, trend),
			Metrics:      vc.Metrics,
			QualityNotes: vc.Issues,
		})
	}

	// When quality control produced nothing, package the raw candidates so
	// the document still carries post options.
	if len(options) == 0 {
		for i, c := range generation.Candidates {
			options = append(options, PostOption{
				OptionNumber: i + 1,
				Title:        c.Content.Title,
				Caption:      c.Content.Caption,
				Hashtags:     rank.Rank(c.Content.Hashtags, trend),
				QualityNotes: []string{"Not validated"},
			})
		}
	}

	var topTrending []TrendingEntry
	for i, ks := range trend.TopKeywords {
		if i >= 10 {
			break
		}
		topTrending = append(topTrending, TrendingEntry{
			Keyword: ks.Keyword,
			Score:   math.Round(ks.Score*100) / 100,
		})
	}

	recommended := trend.Hashtags
	if len(recommended) > 15 {
		recommended = recommended[:15]
	}

	var captionSample []string
	for i, c := range understanding.Full.Screenshots.Captions {
		if i >= 3 {
			break
		}
		captionSample = append(captionSample, c.Caption)
	}

	var imageFiles []string
	for _, p := range quality.ProcessedImages.Paths {
		imageFiles = append(imageFiles, filepath.Base(p))
	}

	return Document{
		Metadata: Metadata{
			GeneratedAt:     time.Now().Format(time.RFC3339),
			PipelineVersion: pipelineVersion,
			QualityScore:    quality.QualityScore,
		},
		TrendInfo: TrendInfo{
			KeywordsAnalyzed:    trend.KeywordsAnalyzed,
			TopTrending:         topTrending,
			RecommendedHashtags: recommended,
		},
		Understanding: Understanding{
			ContentAnalyzed: ContentAnalyzed{
				Screenshots: understanding.Full.Screenshots.Count,
				VideoFrames: len(understanding.Full.Video.Frames),
				TextWords:   len(strings.Fields(understanding.Full.Text.Description)),
			},
			KeyInsights: KeyInsights{
				VideoTranscriptPreview: truncateRunes(understanding.Full.Video.Transcript, 500),
				ImageCaptionsSample:    captionSample,
				GameSummary:            truncateRunes(understanding.Summary, 300),
			},
		},
		PostOptions: options,
		Assets: Assets{
			ImagesDir:   quality.ProcessedImages.OutputDir,
			ImagesCount: quality.ProcessedImages.Count,
			ImageFiles:  imageFiles,
		},
		Recommendations: Recommendations{
			BestOption:     1,
			PostingTime:    "Peak engagement hours: 19:00-22:00 TR time",
			EngagementTips: engagementTips,
		},
	}
}

// writeJSON writes the document with 2-space indentation and without HTML
// escaping so Turkish text and emoji stay readable.
func writeJSON(doc Document, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding final JSON: %w", err)
	}
	return nil
}

// writePackage zips the JSON, the processed images (sorted by name), and a
// README. It returns the number of images included.
func writePackage(jsonPath, imagesDir, zipPath string) (int, error) {
	f, err := os.Create(zipPath)
	if err != nil {
		return 0, fmt.Errorf("creating package: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	if err := addFile(zw, jsonPath, finalJSONName); err != nil {
		return 0, err
	}

	imageCount := 0
	if entries, err := os.ReadDir(imagesDir); err == nil {
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".jpg", ".jpeg", ".png":
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			if err := addFile(zw, filepath.Join(imagesDir, name), "images/"+name); err != nil {
				return imageCount, err
			}
			imageCount++
		}
	}

	readme, err := zw.Create("README.md")
	if err != nil {
		return imageCount, fmt.Errorf("adding README: %w", err)
	}
	if _, err := readme.Write([]byte(readmeContent)); err != nil {
		return imageCount, fmt.Errorf("writing README: %w", err)
	}

	if err := zw.Close(); err != nil {
		return imageCount, fmt.Errorf("closing package: %w", err)
	}
	return imageCount, nil
}

func addFile(zw *zip.Writer, srcPath, arcName string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := zw.Create(arcName)
	if err != nil {
		return fmt.Errorf("adding %s to package: %w", arcName, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("writing %s to package: %w", arcName, err)
	}
	return nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}
