// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ImageCaption pairs a screenshot file with its generated caption.
type ImageCaption struct {
	// File is the base name of the screenshot.
	File string `json:"file"`

	// Caption is the model-generated description, or a placeholder when
	// captioning was unavailable.
	Caption string `json:"caption"`

	// Path is the absolute or input-relative path to the image on disk.
	// It is kept out of the packaged JSON.
	Path string `json:"-"`
}

// FrameCaption pairs an extracted video frame with its caption.
type FrameCaption struct {
	// File is the base name of the extracted frame image.
	File string `json:"file"`

	// TimestampSec is the offset of the frame in the source video.
	TimestampSec float64 `json:"timestamp_sec"`

	// Caption describes the frame contents.
	Caption string `json:"caption"`

	// Path is the frame image location on disk.
	Path string `json:"-"`
}

// ScreenshotInsights summarizes what the screenshots show.
type ScreenshotInsights struct {
	Count    int            `json:"count"`
	Captions []ImageCaption `json:"captions"`
}

// VideoInsights summarizes the gameplay video.
type VideoInsights struct {
	// File is the base name of the analyzed video, empty when none was found.
	File string `json:"file,omitempty"`

	// Transcript is the speech transcript capped at 4000 characters.
	Transcript string `json:"transcript,omitempty"`

	// Frames are captioned frames sampled from the video.
	Frames []FrameCaption `json:"frames,omitempty"`
}

// TextInsights summarizes the textual inputs.
type TextInsights struct {
	// Description is the game description text.
	Description string `json:"description"`

	// Keywords are the raw keywords read from the keyword file.
	Keywords []string `json:"keywords"`
}

// UnderstandingFull is the complete understanding record kept in the run
// directory. The packaged brief is a reduced view of this.
type UnderstandingFull struct {
	Screenshots ScreenshotInsights `json:"screenshots"`
	Video       VideoInsights      `json:"video"`
	Text        TextInsights       `json:"text"`
}

// UnderstandingBundle is the output of the content understanding stage.
type UnderstandingBundle struct {
	// Status is "success" even when every caption is a placeholder.
	Status string `json:"status"`

	// Error carries the analyzer failure message when placeholders were used.
	Error string `json:"error,omitempty"`

	// Full is the complete understanding record.
	Full UnderstandingFull `json:"full"`

	// Summary is a short brief (capped at 500 characters) used downstream
	// for prompting and included in the packaged output.
	Summary string `json:"summary"`
}
