package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "postcraft/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// TrendConfig holds settings for the trend analysis stage.
type TrendConfig struct {
	HTTPConfig `yaml:",inline"`

	// Geo restricts interest lookups to a region (default "TR").
	Geo string `json:"geo" yaml:"geo"`

	// BatchSize is the number of keywords scored per provider request (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the pause between consecutive provider requests (default 1s).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`

	// Endpoint is the interest-over-time API base URL. Empty disables the
	// provider and falls back to deterministic scoring.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// APIKey is an optional key for the interest provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// UnderstandingConfig holds settings for the content understanding stage.
type UnderstandingConfig struct {
	AIConfig `yaml:",inline"`

	// MaxScreenshots caps how many screenshots are captioned (default 20).
	MaxScreenshots int `json:"max_screenshots" yaml:"max_screenshots"`

	// MaxFrames caps how many video frames are extracted (default 20).
	MaxFrames int `json:"max_frames" yaml:"max_frames"`

	// FrameInterval is the spacing between extracted frames (default 2s).
	FrameInterval time.Duration `json:"frame_interval" yaml:"frame_interval"`
}

// GenerationConfig holds settings for the content generation stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	// OutputDir is the base directory for run outputs (default "outputs").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// HistoryPath is the SQLite database recording past runs
	// (default "outputs/history.db").
	HistoryPath string `json:"history_path" yaml:"history_path"`

	Trend         TrendConfig         `json:"trend" yaml:"trend"`
	Understanding UnderstandingConfig `json:"understanding" yaml:"understanding"`
	Generation    GenerationConfig    `json:"generation" yaml:"generation"`
}

// DefaultConfig returns a PipelineConfig with all defaults applied.
func DefaultConfig() PipelineConfig {
	return PipelineConfig{
		OutputDir:   "outputs",
		HistoryPath: "outputs/history.db",
		Trend: TrendConfig{
			HTTPConfig: HTTPConfig{Timeout: 30 * time.Second, UserAgent: "postcraft/0.1"},
			Geo:        "TR",
			BatchSize:  5,
			BatchDelay: time.Second,
		},
		Understanding: UnderstandingConfig{
			AIConfig:       AIConfig{Model: "gemini-2.0-flash"},
			MaxScreenshots: 20,
			MaxFrames:      20,
			FrameInterval:  2 * time.Second,
		},
		Generation: GenerationConfig{
			AIConfig: AIConfig{Model: "gemini-2.0-flash"},
		},
	}
}
