// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ImageGeometry is the pre-processing geometry check for one image.
type ImageGeometry struct {
	Path        string  `json:"path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`

	// IsValid is true when both dimensions meet the 1080x1350 minimum.
	IsValid bool `json:"is_valid"`

	// NeedsResize is true when the dimensions differ from the exact target.
	NeedsResize bool `json:"needs_resize"`

	// NeedsPadding is true when the aspect ratio is too far from 4:5 to
	// scale directly.
	NeedsPadding bool `json:"needs_padding"`
}

// ImageReport describes the outcome of normalizing one image.
type ImageReport struct {
	// Source is the input image path.
	Source string `json:"source"`

	// Output is the written file path, named "processed_<base>".
	Output string `json:"output"`

	// Processed is true when the image was decoded and normalized. False
	// means the file was copied through unchanged because it could not be
	// decoded.
	Processed bool `json:"processed"`

	// Error carries the decode or encode failure for copied-through files.
	Error string `json:"error,omitempty"`
}
