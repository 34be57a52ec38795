// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inputs resolves the asset paths a pipeline run works from.
package inputs

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/meshint/postcraft/pkg/types"
)

// Default local paths, used when a parameter is left empty.
const (
	DefaultGameplayDir   = "./Gameplay"
	DefaultScreenshotDir = "./screenshot"
	DefaultKeywordsFile  = "./asokeywords.txt"
	DefaultGameFile      = "./game.txt"
)

// RemoteSource downloads run inputs from an external location (for example
// a shared drive folder) into a local directory and returns the resolved
// paths.
type RemoteSource interface {
	Fetch(ctx context.Context, destDir string) (types.Inputs, error)
}

// Params carries user-supplied input overrides.
type Params struct {
	GameplayDir   string
	ScreenshotDir string
	KeywordsFile  string
	GameFile      string
}

// Prepare resolves the run inputs. In "remote" mode the source must be
// configured and its failure fails the run; in local mode missing paths are
// created empty so the pipeline can degrade instead of aborting.
func Prepare(ctx context.Context, mode string, params Params, source RemoteSource, destDir string, w io.Writer) (types.Inputs, error) {
	if mode == "remote" {
		if source == nil {
			return types.Inputs{}, fmt.Errorf("remote mode requires a configured remote source")
		}
		in, err := source.Fetch(ctx, destDir)
		if err != nil {
			return types.Inputs{}, fmt.Errorf("fetching remote inputs: %w", err)
		}
		return in, nil
	}

	in := types.Inputs{
		GameplayDir:   orDefault(params.GameplayDir, DefaultGameplayDir),
		ScreenshotDir: orDefault(params.ScreenshotDir, DefaultScreenshotDir),
		KeywordsFile:  orDefault(params.KeywordsFile, DefaultKeywordsFile),
		GameFile:      orDefault(params.GameFile, DefaultGameFile),
	}

	ensureDir(in.GameplayDir, w)
	ensureDir(in.ScreenshotDir, w)
	ensureFile(in.KeywordsFile, w)
	ensureFile(in.GameFile, w)

	return in, nil
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func ensureDir(path string, w io.Writer) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	fmt.Fprintf(w, "  warning: %s does not exist, creating empty directory\n", path)
	if err := os.MkdirAll(path, 0o755); err != nil {
		fmt.Fprintf(w, "  warning: could not create %s: %v\n", path, err)
	}
}

func ensureFile(path string, w io.Writer) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	fmt.Fprintf(w, "  warning: %s does not exist, creating empty file\n", path)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(w, "  warning: could not create %s: %v\n", path, err)
		return
	}
	f.Close()
}
