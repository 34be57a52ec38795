// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/meshint/postcraft/pkg/types"
)

// CheckQuality runs the quality control stage: it normalizes images into
// <outputBase>/images and validates every post candidate. The overall score
// starts at 100 and loses 10 points per issue found across all candidates.
func CheckQuality(candidates []types.PostCandidate, imagePaths []string, outputBase string, w io.Writer) types.QualityResult {
	imagesDir := filepath.Join(outputBase, "images")
	reports := ProcessImages(imagePaths, imagesDir, w)

	var processedPaths []string
	for _, r := range reports {
		processedPaths = append(processedPaths, r.Output)
	}
	fmt.Fprintf(w, "  processed %d images\n", len(processedPaths))

	var validated []types.ValidatedCandidate
	totalIssues := 0
	for i, candidate := range candidates {
		vc := ValidateText(candidate)
		validated = append(validated, vc)
		totalIssues += len(vc.Issues)
		fmt.Fprintf(w, "  validated candidate %d: %d issues\n", i+1, len(vc.Issues))
	}

	score := 100 - totalIssues*10
	if score < 0 {
		score = 0
	}

	return types.QualityResult{
		Status: "success",
		ProcessedImages: types.ProcessedImages{
			Count:     len(processedPaths),
			Paths:     processedPaths,
			OutputDir: imagesDir,
		},
		ValidatedCandidates: validated,
		QualityScore:        score,
		Summary: fmt.Sprintf("Processed %d images, validated %d candidates, quality score: %d%%",
			len(processedPaths), len(validated), score),
	}
}
