// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"time"
)

// RunStatus is the overall state of a pipeline run.
type RunStatus string

const (
	RunStarted   RunStatus = "started"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// StageStatus is the recorded state of one pipeline stage.
type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageError   StageStatus = "error"
)

// Inputs holds the resolved paths for a pipeline run.
type Inputs struct {
	// GameplayDir contains gameplay videos.
	GameplayDir string `json:"gameplay_dir" yaml:"gameplay_dir"`

	// ScreenshotDir contains screenshots.
	ScreenshotDir string `json:"screenshot_dir" yaml:"screenshot_dir"`

	// KeywordsFile is the keyword list, comma or newline separated.
	KeywordsFile string `json:"keywords_file" yaml:"keywords_file"`

	// GameFile is the game description text.
	GameFile string `json:"game_file" yaml:"game_file"`
}

// StageRecord is one named stage result. Records are kept in execution
// order rather than in a map so the serialized report reads top to bottom
// in the order the stages ran.
type StageRecord struct {
	Name    string
	Payload any
}

// StageMap is an ordered collection of stage results.
type StageMap []StageRecord

// Set appends or replaces the record for name.
func (m *StageMap) Set(name string, payload any) {
	for i := range *m {
		if (*m)[i].Name == name {
			(*m)[i].Payload = payload
			return
		}
	}
	*m = append(*m, StageRecord{Name: name, Payload: payload})
}

// Get returns the payload recorded for name, or nil.
func (m StageMap) Get(name string) any {
	for _, r := range m {
		if r.Name == name {
			return r.Payload
		}
	}
	return nil
}

// MarshalJSON emits the records as a JSON object in insertion order.
func (m StageMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object into generic payloads. Key order in the
// source document is not preserved by encoding/json, so records come back in
// an unspecified order; callers that care about order should use Get.
func (m *StageMap) UnmarshalJSON(data []byte) error {
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = (*m)[:0]
	for name, payload := range raw {
		*m = append(*m, StageRecord{Name: name, Payload: payload})
	}
	return nil
}

// FinalOutputs holds the paths produced by the finalization stage.
type FinalOutputs struct {
	JSONPath    string  `json:"json_path" yaml:"json_path"`
	PackagePath string  `json:"package_path" yaml:"package_path"`
	SizeMB      float64 `json:"size_mb" yaml:"size_mb"`
}

// RunResult is the complete record of one pipeline run.
type RunResult struct {
	// RunID is the run directory name, e.g. "run-20260831-120000".
	RunID string `json:"run_id"`

	Mode      string    `json:"mode"`
	Status    RunStatus `json:"status"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	// Error is set when the run failed before completing.
	Error string `json:"error,omitempty"`

	Inputs Inputs `json:"inputs"`

	// Stages holds per-stage results in execution order.
	Stages StageMap `json:"stages"`

	// Outputs is set when finalization succeeded.
	Outputs *FinalOutputs `json:"outputs,omitempty"`
}

// ProcessedImages summarizes the image normalization step.
type ProcessedImages struct {
	Count     int      `json:"count"`
	Paths     []string `json:"paths"`
	OutputDir string   `json:"output_dir"`
}

// QualityResult is the output of the quality control stage.
type QualityResult struct {
	Status string `json:"status"`

	ProcessedImages ProcessedImages `json:"processed_images"`

	// ValidatedCandidates holds the cleaned post candidates.
	ValidatedCandidates []ValidatedCandidate `json:"validated_candidates"`

	// QualityScore is max(0, 100 - 10*total issues) across all candidates.
	QualityScore int `json:"quality_score"`

	Summary string `json:"summary"`
}

// FinalizeResult is the output of the finalization stage.
type FinalizeResult struct {
	Status string `json:"status"`

	// Error carries the failure message when packaging did not complete.
	Error string `json:"error,omitempty"`

	JSONPath      string  `json:"json_path"`
	PackagePath   string  `json:"package_path"`
	PackageSizeMB float64 `json:"package_size_mb"`
	OutputDir     string  `json:"output_dir"`

	// ImageCount is the number of images included in the package.
	ImageCount int `json:"image_count"`
}
