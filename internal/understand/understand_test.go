// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package understand

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meshint/postcraft/pkg/types"
)

func setupInputs(t *testing.T) types.Inputs {
	t.Helper()
	root := t.TempDir()
	in := types.Inputs{
		GameplayDir:   filepath.Join(root, "Gameplay"),
		ScreenshotDir: filepath.Join(root, "screenshot"),
		KeywordsFile:  filepath.Join(root, "asokeywords.txt"),
		GameFile:      filepath.Join(root, "game.txt"),
	}
	for _, dir := range []string{in.GameplayDir, in.ScreenshotDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return in
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type fakeCaptioner struct {
	err   error
	calls int
}

func (f *fakeCaptioner) Caption(ctx context.Context, imagePath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "a knight fighting a dragon", nil
}

func TestAnalyzeNoBackends(t *testing.T) {
	in := setupInputs(t)
	writeFile(t, in.GameFile, "An epic mobile RPG set in ancient Anadolu.")
	writeFile(t, in.KeywordsFile, "rpg, savaş, macera")
	writeFile(t, filepath.Join(in.ScreenshotDir, "shot1.png"), "not-a-real-image")

	bundle := Analyze(context.Background(), in, Deps{}, types.UnderstandingConfig{}, t.TempDir(), io.Discard)

	if bundle.Status != "success" {
		t.Fatalf("status = %q, want success", bundle.Status)
	}
	if bundle.Full.Screenshots.Count != 1 {
		t.Fatalf("screenshot count = %d, want 1", bundle.Full.Screenshots.Count)
	}
	if got := bundle.Full.Screenshots.Captions[0].Caption; got != placeholderCaption {
		t.Errorf("caption = %q, want placeholder", got)
	}
	if bundle.Full.Video.Transcript != placeholderNoVideo {
		t.Errorf("transcript = %q, want no-video placeholder", bundle.Full.Video.Transcript)
	}
	if !strings.Contains(bundle.Full.Text.Description, "Anadolu") {
		t.Errorf("description not carried through: %q", bundle.Full.Text.Description)
	}
	if len(bundle.Full.Text.Keywords) != 3 {
		t.Errorf("keywords = %v, want 3 entries", bundle.Full.Text.Keywords)
	}
}

func TestAnalyzeEmptyScreenshotDir(t *testing.T) {
	in := setupInputs(t)
	writeFile(t, in.GameFile, "desc")

	bundle := Analyze(context.Background(), in, Deps{}, types.UnderstandingConfig{}, t.TempDir(), io.Discard)

	caps := bundle.Full.Screenshots.Captions
	if len(caps) != 1 || caps[0].File != "no_images_found" {
		t.Fatalf("captions = %+v, want single no_images_found entry", caps)
	}
}

func TestAnalyzeScreenshotCap(t *testing.T) {
	in := setupInputs(t)
	writeFile(t, in.GameFile, "desc")
	for i := 0; i < 9; i++ {
		writeFile(t, filepath.Join(in.ScreenshotDir, fmt.Sprintf("s%d.jpg", i)), "x")
	}
	fc := &fakeCaptioner{}

	bundle := Analyze(context.Background(), in, Deps{Captioner: fc},
		types.UnderstandingConfig{MaxScreenshots: 3}, t.TempDir(), io.Discard)

	if fc.calls != 3 {
		t.Errorf("captioner called %d times, want 3", fc.calls)
	}
	if bundle.Full.Screenshots.Count != 3 {
		t.Errorf("count = %d, want 3", bundle.Full.Screenshots.Count)
	}
}

func TestAnalyzeDefaultScreenshotCap(t *testing.T) {
	in := setupInputs(t)
	writeFile(t, in.GameFile, "desc")
	for i := 0; i < 22; i++ {
		writeFile(t, filepath.Join(in.ScreenshotDir, fmt.Sprintf("s%02d.jpg", i)), "x")
	}
	fc := &fakeCaptioner{}

	bundle := Analyze(context.Background(), in, Deps{Captioner: fc},
		types.UnderstandingConfig{}, t.TempDir(), io.Discard)

	if fc.calls != 20 {
		t.Errorf("captioner called %d times, want 20", fc.calls)
	}
	if bundle.Full.Screenshots.Count != 20 {
		t.Errorf("count = %d, want 20", bundle.Full.Screenshots.Count)
	}
}

func TestDefaultConfigUnderstanding(t *testing.T) {
	cfg := types.DefaultConfig().Understanding

	if cfg.MaxScreenshots != 20 {
		t.Errorf("MaxScreenshots = %d, want 20", cfg.MaxScreenshots)
	}
	if cfg.MaxFrames != 20 {
		t.Errorf("MaxFrames = %d, want 20", cfg.MaxFrames)
	}
	if cfg.FrameInterval != 2*time.Second {
		t.Errorf("FrameInterval = %v, want 2s", cfg.FrameInterval)
	}
}

func TestAnalyzeCaptionerFailureDegrades(t *testing.T) {
	in := setupInputs(t)
	writeFile(t, in.GameFile, "desc")
	writeFile(t, filepath.Join(in.ScreenshotDir, "a.jpg"), "x")

	bundle := Analyze(context.Background(), in, Deps{Captioner: &fakeCaptioner{err: fmt.Errorf("quota exceeded")}},
		types.UnderstandingConfig{}, t.TempDir(), io.Discard)

	if bundle.Status != "success" {
		t.Fatalf("status = %q, want success", bundle.Status)
	}
	if !strings.Contains(bundle.Error, "quota exceeded") {
		t.Errorf("error = %q, want captioner failure recorded", bundle.Error)
	}
	if got := bundle.Full.Screenshots.Captions[0].Caption; got != "Failed to caption image" {
		t.Errorf("caption = %q", got)
	}
}

func TestAnalyzeMissingGameFile(t *testing.T) {
	in := setupInputs(t)

	bundle := Analyze(context.Background(), in, Deps{}, types.UnderstandingConfig{}, t.TempDir(), io.Discard)

	if bundle.Full.Text.Description != "Game description file not found" {
		t.Errorf("description = %q", bundle.Full.Text.Description)
	}
}

func TestSummarizeTruncates(t *testing.T) {
	long := strings.Repeat("ü", 600)
	got := summarize(long)
	if []rune(got)[0] != 'ü' {
		t.Fatalf("rune handling broken: %q", got[:8])
	}
	if len([]rune(got)) != 503 {
		t.Errorf("summary length = %d runes, want 503 (500 + ellipsis)", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("summary missing ellipsis")
	}

	short := "tiny"
	if summarize(short) != short {
		t.Error("short description should pass through unchanged")
	}
}

func TestListByExtSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.PNG", "a.jpg", "notes.txt", "c.webm"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	images := listByExt(dir, imageExts)
	if len(images) != 2 {
		t.Fatalf("images = %v, want 2", images)
	}
	if filepath.Base(images[0]) != "a.jpg" || filepath.Base(images[1]) != "b.PNG" {
		t.Errorf("images not sorted: %v", images)
	}

	videos := listByExt(dir, videoExts)
	if len(videos) != 1 || filepath.Base(videos[0]) != "c.webm" {
		t.Errorf("videos = %v", videos)
	}
}
