package model

import "time"

// Config holds the full application configuration
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	Images     ImageConfig      `yaml:"images" mapstructure:"images"`
	Limits     LimitConfig      `yaml:"limits" mapstructure:"limits"`
	Classifier ClassifierConfig `yaml:"classifier" mapstructure:"classifier"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the gateway to the external model API
type LLMConfig struct {
	APIKey  string `yaml:"-" mapstructure:"api_key"` // Never serialized to config files
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`

	MaxTokens        int `yaml:"max_tokens" mapstructure:"max_tokens"`
	SummaryMaxTokens int `yaml:"summary_max_tokens" mapstructure:"summary_max_tokens"`

	// ExtractionTimeout applies to the multimodal fact-extraction call,
	// which carries the largest payloads. Timeout covers everything else.
	ExtractionTimeout time.Duration `yaml:"extraction_timeout" mapstructure:"extraction_timeout"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`

	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ImageConfig bounds per-image processing
type ImageConfig struct {
	DPI            int   `yaml:"dpi" mapstructure:"dpi"`
	MaxDimension   int   `yaml:"max_dimension" mapstructure:"max_dimension"`
	MaxBytes       int64 `yaml:"max_bytes" mapstructure:"max_bytes"`
	JPEGQuality    int   `yaml:"jpeg_quality" mapstructure:"jpeg_quality"`
	MaxPerPage     int   `yaml:"max_per_page" mapstructure:"max_per_page"`
	MaxPerDocument int   `yaml:"max_per_document" mapstructure:"max_per_document"`
}

// LimitConfig bounds the aggregate request payload
type LimitConfig struct {
	MaxImagesPerRequest int   `yaml:"max_images_per_request" mapstructure:"max_images_per_request"`
	MaxPayloadBytes     int64 `yaml:"max_payload_bytes" mapstructure:"max_payload_bytes"`
}

// ClassifierConfig bounds the LLM document-content classifier
type ClassifierConfig struct {
	MinConfidence float64       `yaml:"min_confidence" mapstructure:"min_confidence"`
	MinContentLen int           `yaml:"min_content_len" mapstructure:"min_content_len"`
	SampleLen     int           `yaml:"sample_len" mapstructure:"sample_len"`
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:             "gpt-4o",
			MaxTokens:         4000,
			SummaryMaxTokens:  2000,
			ExtractionTimeout: 180 * time.Second,
			Timeout:           120 * time.Second,
			MaxAttempts:       3,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Images: ImageConfig{
			DPI:            72,
			MaxDimension:   2048,
			MaxBytes:       2 * 1024 * 1024,
			JPEGQuality:    85,
			MaxPerPage:     5,
			MaxPerDocument: 20,
		},
		Limits: LimitConfig{
			MaxImagesPerRequest: 50,
			MaxPayloadBytes:     50 * 1024 * 1024,
		},
		Classifier: ClassifierConfig{
			MinConfidence: 0.6,
			MinContentLen: 50,
			SampleLen:     2000,
			CacheTTL:      30 * time.Minute,
		},
	}
}
