// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package understand

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	binFFmpeg  = "ffmpeg"
	binFFprobe = "ffprobe"
)

// runner abstracts command execution for testing.
type runner interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Run(ctx context.Context, name string, args ...string) error
}

// osRunner is the production runner backed by os/exec.
type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (osRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// FFmpegExtractor samples frames from a video with ffmpeg, probing the
// duration with ffprobe first so frames spread across the whole video.
type FFmpegExtractor struct {
	run runner
}

// NewFFmpegExtractor returns an extractor, or nil when ffmpeg is not on
// PATH so callers skip frame extraction.
func NewFFmpegExtractor() *FFmpegExtractor {
	r := osRunner{}
	if _, err := r.LookPath(binFFmpeg); err != nil {
		return nil
	}
	return &FFmpegExtractor{run: r}
}

// Extract writes up to maxFrames JPEG frames into outDir, one every
// intervalSec seconds starting at zero.
func (f *FFmpegExtractor) Extract(ctx context.Context, videoPath, outDir string, intervalSec float64, maxFrames int) ([]Frame, error) {
	if intervalSec <= 0 {
		intervalSec = 2
	}
	if maxFrames <= 0 {
		maxFrames = 20
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating frames directory: %w", err)
	}

	duration, err := f.probeDuration(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", filepath.Base(videoPath), err)
	}

	var frames []Frame
	for i := 0; i < maxFrames; i++ {
		ts := float64(i) * intervalSec
		if duration > 0 && ts >= duration {
			break
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("frame_%03d.jpg", i))
		err := f.run.Run(ctx, binFFmpeg,
			"-ss", strconv.FormatFloat(ts, 'f', 2, 64),
			"-i", videoPath,
			"-frames:v", "1",
			"-q:v", "2",
			"-y", outPath,
		)
		if err != nil {
			return frames, fmt.Errorf("extracting frame at %.1fs: %w", ts, err)
		}
		frames = append(frames, Frame{Path: outPath, TimestampSec: ts})
	}
	return frames, nil
}

func (f *FFmpegExtractor) probeDuration(ctx context.Context, videoPath string) (float64, error) {
	out, err := f.run.Output(ctx, binFFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
}
