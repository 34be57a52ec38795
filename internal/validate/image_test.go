// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meshint/postcraft/pkg/types"
)

func writeTestPNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestValidateImageGeometry(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name         string
		w, h         int
		isValid      bool
		needsResize  bool
		needsPadding bool
	}{
		{"exact target", 1080, 1350, true, false, false},
		{"large same ratio", 2160, 2700, true, true, false},
		{"undersized", 200, 100, false, true, true},
		{"tall near ratio", 1080, 1400, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".png")
			writeTestPNG(t, path, tt.w, tt.h, color.White)

			geo, err := ValidateImage(path)
			if err != nil {
				t.Fatal(err)
			}
			if geo.Width != tt.w || geo.Height != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", geo.Width, geo.Height, tt.w, tt.h)
			}
			if geo.IsValid != tt.isValid {
				t.Errorf("IsValid = %v, want %v", geo.IsValid, tt.isValid)
			}
			if geo.NeedsResize != tt.needsResize {
				t.Errorf("NeedsResize = %v, want %v", geo.NeedsResize, tt.needsResize)
			}
			if geo.NeedsPadding != tt.needsPadding {
				t.Errorf("NeedsPadding = %v, want %v", geo.NeedsPadding, tt.needsPadding)
			}
		})
	}
}

func TestValidateImageUnreadable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateImage(path); err == nil {
		t.Error("expected a decode error")
	}
}

func TestLetterboxWideImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	out := filepath.Join(dir, "out.jpg")
	writeTestPNG(t, src, 200, 100, color.RGBA{R: 255, A: 255})

	if err := letterbox(src, out); err != nil {
		t.Fatal(err)
	}

	img := decodeJPEG(t, out)
	b := img.Bounds()
	if b.Dx() != 1080 || b.Dy() != 1350 {
		t.Fatalf("output size = %dx%d, want 1080x1350", b.Dx(), b.Dy())
	}

	// A 2:1 source scales to 1080x540 with 405px white bands above and below.
	r, g, bl, _ := img.At(540, 10).RGBA()
	if r < 0xf000 || g < 0xf000 || bl < 0xf000 {
		t.Errorf("top padding not white: %v %v %v", r, g, bl)
	}
	r, _, _, _ = img.At(540, 675).RGBA()
	if r < 0xf000 {
		t.Error("center should be red")
	}
	_, g, _, _ = img.At(540, 675).RGBA()
	if g > 0x2000 {
		t.Error("center green channel should be low for red source")
	}
}

func TestLetterboxTallImage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tall.png")
	out := filepath.Join(dir, "out.jpg")
	writeTestPNG(t, src, 100, 400, color.RGBA{B: 255, A: 255})

	if err := letterbox(src, out); err != nil {
		t.Fatal(err)
	}

	img := decodeJPEG(t, out)
	if img.Bounds().Dx() != 1080 || img.Bounds().Dy() != 1350 {
		t.Fatalf("output size = %v", img.Bounds())
	}
	// 1:4 source scales to 337x1350; left band is white.
	r, g, b, _ := img.At(10, 675).RGBA()
	if r < 0xf000 || g < 0xf000 || b < 0xf000 {
		t.Error("left padding not white")
	}
}

func TestLetterboxExactRatio(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ratio.png")
	out := filepath.Join(dir, "out.jpg")
	writeTestPNG(t, src, 432, 540, color.RGBA{G: 255, A: 255})

	if err := letterbox(src, out); err != nil {
		t.Fatal(err)
	}

	img := decodeJPEG(t, out)
	// 4:5 source fills the whole canvas; corners are source color.
	_, g, _, _ := img.At(5, 5).RGBA()
	if g < 0xf000 {
		t.Error("corner should be green, not padding")
	}
}

func TestLetterboxAlreadyTargetSize(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "exact.png")
	out := filepath.Join(dir, "out.jpg")
	writeTestPNG(t, src, 1080, 1350, color.RGBA{B: 255, A: 255})

	if err := letterbox(src, out); err != nil {
		t.Fatal(err)
	}

	img := decodeJPEG(t, out)
	b := img.Bounds()
	if b.Dx() != 1080 || b.Dy() != 1350 {
		t.Errorf("output = %dx%d, want 1080x1350", b.Dx(), b.Dy())
	}
}

func TestProcessImagesCopiesValidGeometry(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "exact.png")
	writeTestPNG(t, src, 1080, 1350, color.RGBA{R: 255, A: 255})
	outDir := filepath.Join(dir, "images")

	reports := ProcessImages([]string{src}, outDir, io.Discard)

	if len(reports) != 1 || !reports[0].Processed {
		t.Fatalf("reports = %+v, want one processed report", reports)
	}
	want, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "processed_exact.png"))
	if err != nil {
		t.Fatal(err)
	}
	// Already 1080x1350 at 4:5, so the original bytes survive unchanged.
	if !bytes.Equal(got, want) {
		t.Error("target-geometry image should be copied, not re-encoded")
	}
}

func TestProcessImagesCopyThroughOnBadFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "images")

	reports := ProcessImages([]string{src}, outDir, io.Discard)

	if len(reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(reports))
	}
	r := reports[0]
	if r.Processed {
		t.Error("undecodable image should not be marked processed")
	}
	if r.Error == "" {
		t.Error("expected decode error recorded")
	}
	data, err := os.ReadFile(r.Output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "not an image" {
		t.Error("copy-through did not preserve file contents")
	}
	if filepath.Base(r.Output) != "processed_broken.jpg" {
		t.Errorf("output name = %s", filepath.Base(r.Output))
	}
}

func TestProcessImagesSkipsMissingAndCaps(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	paths = append(paths, filepath.Join(dir, "missing.png"))
	for i := 0; i < 12; i++ {
		p := filepath.Join(dir, "img"+string(rune('a'+i))+".png")
		writeTestPNG(t, p, 40, 50, color.White)
		paths = append(paths, p)
	}

	reports := ProcessImages(paths, filepath.Join(dir, "images"), io.Discard)

	// 10-image cap includes the missing entry, which is then skipped.
	if len(reports) != 9 {
		t.Errorf("reports = %d, want 9", len(reports))
	}
	for _, r := range reports {
		if !r.Processed {
			t.Errorf("image %s not processed: %s", r.Source, r.Error)
		}
	}
}

func TestCheckQuality(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shot.png")
	writeTestPNG(t, src, 40, 50, color.White)

	candidates := []types.PostCandidate{
		{Variant: 1, Content: types.PostContent{Title: "ok", Caption: "temiz içerik", Hashtags: []string{"#a1", "#b2", "#c3", "#d4", "#e5"}}},
		{Variant: 2, Content: types.PostContent{Title: "ok", Caption: strings.Repeat("a", 2300), Hashtags: []string{"#a1", "#b2", "#c3", "#d4", "#e5"}}},
	}

	result := CheckQuality(candidates, []string{src}, dir, io.Discard)

	if result.Status != "success" {
		t.Fatalf("status = %q", result.Status)
	}
	if result.ProcessedImages.Count != 1 {
		t.Errorf("processed count = %d, want 1", result.ProcessedImages.Count)
	}
	if result.ProcessedImages.OutputDir != filepath.Join(dir, "images") {
		t.Errorf("output dir = %s", result.ProcessedImages.OutputDir)
	}
	if len(result.ValidatedCandidates) != 2 {
		t.Fatalf("validated = %d, want 2", len(result.ValidatedCandidates))
	}
	// One issue total (caption truncation) costs 10 points.
	if result.QualityScore != 90 {
		t.Errorf("quality score = %d, want 90", result.QualityScore)
	}
}
