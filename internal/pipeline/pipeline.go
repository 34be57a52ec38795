// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the six content stages in order: input preparation,
// trend analysis, content understanding, content generation, quality
// control, and finalization. Stages degrade individually; only input
// preparation can fail the whole run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/meshint/postcraft/internal/finalize"
	"github.com/meshint/postcraft/internal/generate"
	"github.com/meshint/postcraft/internal/history"
	"github.com/meshint/postcraft/internal/inputs"
	"github.com/meshint/postcraft/internal/trend"
	"github.com/meshint/postcraft/internal/understand"
	"github.com/meshint/postcraft/internal/validate"
	"github.com/meshint/postcraft/pkg/types"
)

// Stage names as they appear in run records.
const (
	StageInputPreparation     = "input_preparation"
	StageTrendAnalysis        = "trend_analysis"
	StageContentUnderstanding = "content_understanding"
	StageContentGeneration    = "content_generation"
	StageQualityControl       = "quality_control"
	StageFinalization         = "finalization"
)

const runTimestampLayout = "20060102-150405"

// Deps bundles the pluggable backends for one run. Any field may be nil;
// the matching stage then degrades to its fallback.
type Deps struct {
	Trend       trend.Provider
	Text        generate.TextBackend
	Captioner   understand.ImageCaptioner
	Transcriber understand.Transcriber
	Frames      understand.FrameExtractor
	Remote      inputs.RemoteSource
	History     *history.Store
}

// InputRecord is the payload stored for the input preparation stage.
type InputRecord struct {
	Status string       `json:"status"`
	Error  string       `json:"error,omitempty"`
	Inputs types.Inputs `json:"inputs"`
}

// Run executes the full pipeline and returns its record. The record is
// always non-nil; consult Status for the outcome. Progress is written to w.
func Run(ctx context.Context, mode string, params inputs.Params, cfg types.PipelineConfig, deps Deps, w io.Writer) *types.RunResult {
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "outputs"
	}

	started := time.Now()
	runID := "run-" + started.Format(runTimestampLayout)
	runDir := filepath.Join(outputDir, runID)

	result := &types.RunResult{
		RunID:     runID,
		Mode:      mode,
		Status:    types.RunStarted,
		StartedAt: started,
	}

	defer func() {
		if r := recover(); r != nil {
			result.Status = types.RunFailed
			result.Error = fmt.Sprintf("pipeline panic: %v", r)
		}
		result.EndedAt = time.Now()
		writeRunReport(result, runDir, w)
		recordHistory(ctx, deps.History, result, w)
	}()

	if err := os.MkdirAll(runDir, 0o755); err != nil {
		result.Status = types.RunFailed
		result.Error = fmt.Sprintf("creating run directory: %v", err)
		return result
	}

	// Stage 1: input preparation. Failure here aborts the run.
	fmt.Fprintf(w, "Stage 1/6: %s (mode: %s)\n", StageInputPreparation, mode)
	in, err := inputs.Prepare(ctx, mode, params, deps.Remote, filepath.Join(runDir, "inputs"), w)
	if err != nil {
		result.Stages.Set(StageInputPreparation, InputRecord{Status: string(types.StageError), Error: err.Error()})
		result.Status = types.RunFailed
		result.Error = err.Error()
		return result
	}
	result.Inputs = in
	result.Stages.Set(StageInputPreparation, InputRecord{Status: string(types.StageSuccess), Inputs: in})

	// Stage 2: trend analysis.
	fmt.Fprintf(w, "Stage 2/6: %s\n", StageTrendAnalysis)
	trendBundle := trend.Analyze(ctx, in.KeywordsFile, deps.Trend, cfg.Trend, w)
	result.Stages.Set(StageTrendAnalysis, trendBundle)

	// Stage 3: content understanding.
	fmt.Fprintf(w, "Stage 3/6: %s\n", StageContentUnderstanding)
	understanding := understand.Analyze(ctx, in, understand.Deps{
		Captioner:   deps.Captioner,
		Transcriber: deps.Transcriber,
		Frames:      deps.Frames,
	}, cfg.Understanding, filepath.Join(runDir, "tmp"), w)
	result.Stages.Set(StageContentUnderstanding, understanding)

	// Stage 4: content generation.
	fmt.Fprintf(w, "Stage 4/6: %s\n", StageContentGeneration)
	generation := generate.Generate(ctx, deps.Text, trendBundle, understanding, w)
	result.Stages.Set(StageContentGeneration, generation)

	// Stage 5: quality control.
	fmt.Fprintf(w, "Stage 5/6: %s\n", StageQualityControl)
	imagePaths := collectImagePaths(in.ScreenshotDir, understanding)
	quality := validate.CheckQuality(generation.Candidates, imagePaths, runDir, w)
	result.Stages.Set(StageQualityControl, quality)

	// Stage 6: finalization.
	fmt.Fprintf(w, "Stage 6/6: %s\n", StageFinalization)
	final, err := finalize.Finalize(trendBundle, understanding, generation, quality, runDir, w)
	if err != nil {
		fmt.Fprintf(w, "  warning: finalization failed: %v\n", err)
		final.Error = err.Error()
	}
	result.Stages.Set(StageFinalization, final)

	result.Status = types.RunCompleted
	if final.Status == "success" {
		result.Outputs = &types.FinalOutputs{
			JSONPath:    final.JSONPath,
			PackagePath: final.PackagePath,
			SizeMB:      final.PackageSizeMB,
		}
	}

	fmt.Fprintf(w, "Pipeline completed. Outputs in %s\n", runDir)
	return result
}

// collectImagePaths gathers the images for quality control: every image in
// the screenshot directory plus any captioned screenshot paths not already
// included.
func collectImagePaths(screenshotDir string, understanding types.UnderstandingBundle) []string {
	var paths []string
	seen := map[string]bool{}

	if entries, err := os.ReadDir(screenshotDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".jpg", ".jpeg", ".png":
				p := filepath.Join(screenshotDir, e.Name())
				paths = append(paths, p)
				seen[p] = true
			}
		}
	}

	for _, c := range understanding.Full.Screenshots.Captions {
		if c.Path == "" || seen[c.Path] {
			continue
		}
		if _, err := os.Stat(c.Path); err == nil {
			paths = append(paths, c.Path)
			seen[c.Path] = true
		}
	}
	return paths
}

// runReport is the compact YAML summary written next to the run outputs.
type runReport struct {
	RunID     string              `yaml:"run_id"`
	Mode      string              `yaml:"mode"`
	Status    string              `yaml:"status"`
	StartedAt string              `yaml:"started_at"`
	EndedAt   string              `yaml:"ended_at"`
	Error     string              `yaml:"error,omitempty"`
	Inputs    types.Inputs        `yaml:"inputs"`
	Stages    []stageReport       `yaml:"stages"`
	Outputs   *types.FinalOutputs `yaml:"outputs,omitempty"`
}

type stageReport struct {
	Name    string `yaml:"name"`
	Status  string `yaml:"status"`
	Error   string `yaml:"error,omitempty"`
	Summary string `yaml:"summary,omitempty"`
}

func writeRunReport(result *types.RunResult, runDir string, w io.Writer) {
	report := runReport{
		RunID:     result.RunID,
		Mode:      result.Mode,
		Status:    string(result.Status),
		StartedAt: result.StartedAt.Format(time.RFC3339),
		EndedAt:   result.EndedAt.Format(time.RFC3339),
		Error:     result.Error,
		Inputs:    result.Inputs,
		Outputs:   result.Outputs,
	}
	for _, record := range result.Stages {
		report.Stages = append(report.Stages, summarizeStage(record))
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		fmt.Fprintf(w, "warning: could not encode run report: %v\n", err)
		return
	}
	if err := os.WriteFile(filepath.Join(runDir, "run.yaml"), data, 0o644); err != nil {
		fmt.Fprintf(w, "warning: could not write run report: %v\n", err)
	}
}

func summarizeStage(record types.StageRecord) stageReport {
	report := stageReport{Name: record.Name}
	switch payload := record.Payload.(type) {
	case InputRecord:
		report.Status = payload.Status
		report.Error = payload.Error
	case types.TrendBundle:
		report.Status = payload.Status
		report.Error = payload.Error
		report.Summary = payload.Summary
	case types.UnderstandingBundle:
		report.Status = payload.Status
		report.Error = payload.Error
	case types.GenerationResult:
		report.Status = payload.Status
		report.Error = payload.Error
		report.Summary = fmt.Sprintf("%d candidates", len(payload.Candidates))
	case types.QualityResult:
		report.Status = payload.Status
		report.Summary = payload.Summary
	case types.FinalizeResult:
		report.Status = payload.Status
		report.Error = payload.Error
		if payload.Status == "success" {
			report.Summary = fmt.Sprintf("%d images packaged, %.2f MB", payload.ImageCount, payload.PackageSizeMB)
		}
	default:
		report.Status = string(types.StageSuccess)
	}
	return report
}

func recordHistory(ctx context.Context, store *history.Store, result *types.RunResult, w io.Writer) {
	if store == nil {
		return
	}
	if err := store.Record(ctx, result); err != nil {
		fmt.Fprintf(w, "warning: could not record run history: %v\n", err)
	}
}
