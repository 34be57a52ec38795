// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	// Decoders for the screenshot formats we accept.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/meshint/postcraft/pkg/types"
)

// Instagram story format.
const (
	targetWidth  = 1080
	targetHeight = 1350

	// Aspect ratios within this tolerance of 4:5 are scaled directly
	// without padding.
	ratioTolerance = 0.01

	// Images whose aspect ratio is this far from 4:5 are reported as
	// needing padding.
	paddingTolerance = 0.05

	jpegQuality = 95

	maxProcessedImages = 10
)

// ValidateImage reports the geometry of the image at path against the
// 1080x1350 target without modifying it.
func ValidateImage(path string) (types.ImageGeometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ImageGeometry{Path: path}, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return types.ImageGeometry{Path: path}, fmt.Errorf("decoding image: %w", err)
	}

	aspect := float64(cfg.Width) / float64(cfg.Height)
	target := float64(targetWidth) / float64(targetHeight)
	return types.ImageGeometry{
		Path:         path,
		Width:        cfg.Width,
		Height:       cfg.Height,
		AspectRatio:  aspect,
		IsValid:      cfg.Width >= targetWidth && cfg.Height >= targetHeight,
		NeedsResize:  cfg.Width != targetWidth || cfg.Height != targetHeight,
		NeedsPadding: math.Abs(aspect-target) > paddingTolerance,
	}, nil
}

// ProcessImages normalizes up to 10 images into outDir, naming each output
// "processed_<base>". Images already at the target geometry are copied
// unchanged; the rest are letterboxed. Images that cannot be decoded or
// encoded are also copied through, with the error recorded; missing files
// are skipped. The returned reports are in input order.
func ProcessImages(paths []string, outDir string, w io.Writer) []types.ImageReport {
	if len(paths) > maxProcessedImages {
		paths = paths[:maxProcessedImages]
	}

	var reports []types.ImageReport
	for _, src := range paths {
		if _, err := os.Stat(src); err != nil {
			fmt.Fprintf(w, "  warning: image not found: %s\n", src)
			continue
		}

		outPath := filepath.Join(outDir, "processed_"+filepath.Base(src))
		report := types.ImageReport{Source: src, Output: outPath}

		geo, geoErr := ValidateImage(src)
		if geoErr == nil && !geo.IsValid {
			fmt.Fprintf(w, "  warning: %s is %dx%d, below %dx%d\n",
				filepath.Base(src), geo.Width, geo.Height, targetWidth, targetHeight)
		}

		// Images already at the target geometry keep their original bytes.
		if geoErr == nil && !geo.NeedsResize && !geo.NeedsPadding {
			if err := copyFile(src, outPath); err != nil {
				fmt.Fprintf(w, "  warning: could not copy %s: %v\n", filepath.Base(src), err)
				continue
			}
			report.Processed = true
			reports = append(reports, report)
			continue
		}

		if err := letterbox(src, outPath); err != nil {
			fmt.Fprintf(w, "  warning: could not process %s: %v, copying as-is\n", filepath.Base(src), err)
			report.Error = err.Error()
			if copyErr := copyFile(src, outPath); copyErr != nil {
				fmt.Fprintf(w, "  warning: copy also failed: %v\n", copyErr)
				continue
			}
		} else {
			report.Processed = true
		}
		reports = append(reports, report)
	}
	return reports
}

// letterbox scales the image to 1080x1350, padding with white when the
// aspect ratio is not 4:5. Alpha channels are flattened onto white.
func letterbox(srcPath, outPath string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening image: %w", err)
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW == 0 || srcH == 0 {
		return fmt.Errorf("image has zero dimension")
	}

	canvas := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	srcRatio := float64(srcW) / float64(srcH)
	targetRatio := float64(targetWidth) / float64(targetHeight)

	var dstRect image.Rectangle
	switch {
	case math.Abs(srcRatio-targetRatio) < ratioTolerance:
		dstRect = canvas.Bounds()
	case srcRatio > targetRatio:
		// Wider than 4:5, fit to width and pad top and bottom.
		newH := int(float64(targetWidth) / srcRatio)
		pad := (targetHeight - newH) / 2
		dstRect = image.Rect(0, pad, targetWidth, pad+newH)
	default:
		// Taller than 4:5, fit to height and pad left and right.
		newW := int(float64(targetHeight) * srcRatio)
		pad := (targetWidth - newW) / 2
		dstRect = image.Rect(pad, 0, pad+newW, targetHeight)
	}

	draw.CatmullRom.Scale(canvas, dstRect, src, bounds, draw.Over, nil)

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output image: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encoding JPEG: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
