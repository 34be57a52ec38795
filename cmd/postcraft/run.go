// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshint/postcraft/internal/generate"
	"github.com/meshint/postcraft/internal/history"
	"github.com/meshint/postcraft/internal/inputs"
	"github.com/meshint/postcraft/internal/pipeline"
	"github.com/meshint/postcraft/internal/trend"
	"github.com/meshint/postcraft/internal/understand"
	"github.com/meshint/postcraft/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the content pipeline once",
	Long: `Run executes the full pipeline: input preparation, trend analysis,
content understanding, content generation, quality control, and finalization.
Outputs land in a timestamped directory under the output dir, with a
final_post.json and a final_package.zip ready for upload.

In local mode missing input paths are created empty and the run degrades
gracefully; in remote mode a configured remote source is required.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("mode", "local", "input mode: local or remote")
	runCmd.Flags().String("gameplay-dir", "", "directory of gameplay videos (default ./Gameplay)")
	runCmd.Flags().String("screenshot-dir", "", "directory of screenshots (default ./screenshot)")
	runCmd.Flags().String("keywords-file", "", "ASO keywords file (default ./asokeywords.txt)")
	runCmd.Flags().String("game-file", "", "game description file (default ./game.txt)")
	runCmd.Flags().String("output-dir", "", "base directory for run outputs (default outputs)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, _ := cmd.Flags().GetString("mode")
	if mode != "local" && mode != "remote" {
		return fmt.Errorf("unknown mode %q: use local or remote", mode)
	}

	cfg := loadConfig()
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}

	params := inputs.Params{}
	params.GameplayDir, _ = cmd.Flags().GetString("gameplay-dir")
	params.ScreenshotDir, _ = cmd.Flags().GetString("screenshot-dir")
	params.KeywordsFile, _ = cmd.Flags().GetString("keywords-file")
	params.GameFile, _ = cmd.Flags().GetString("game-file")

	ctx := context.Background()
	deps, cleanup, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result := pipeline.Run(ctx, mode, params, cfg, deps, os.Stdout)
	if result.Status == types.RunFailed {
		return fmt.Errorf("run %s failed: %s", result.RunID, result.Error)
	}

	fmt.Printf("Run %s completed.\n", result.RunID)
	if result.Outputs != nil {
		fmt.Printf("  Post JSON: %s\n", result.Outputs.JSONPath)
		fmt.Printf("  Package:   %s (%.2f MB)\n", result.Outputs.PackagePath, result.Outputs.SizeMB)
	}
	return nil
}

// buildDeps wires the optional backends from cfg. Each constructor returns
// nil when its backend is unconfigured or unavailable; the nil guards keep
// a typed nil out of the interface fields so stages see a true nil and
// fall back.
func buildDeps(ctx context.Context, cfg types.PipelineConfig) (pipeline.Deps, func(), error) {
	deps := pipeline.Deps{}

	if p := trend.NewHTTPProvider(cfg.Trend); p != nil {
		deps.Trend = p
	}

	analyzer, err := understand.NewGeminiAnalyzer(ctx, cfg.Understanding.AIConfig)
	if err != nil {
		return deps, func() {}, err
	}
	if analyzer != nil {
		deps.Captioner = analyzer
		deps.Transcriber = analyzer
	}

	writer, err := generate.NewGeminiWriter(ctx, cfg.Generation)
	if err != nil {
		return deps, func() {}, err
	}
	if writer != nil {
		deps.Text = writer
	}

	if f := understand.NewFFmpegExtractor(); f != nil {
		deps.Frames = f
	}

	cleanup := func() {}
	store, err := history.NewStore(cfg.HistoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
	} else {
		deps.History = store
		cleanup = func() { store.Close() }
	}

	return deps, cleanup, nil
}
