//nolint:lll
package config

// Config represents the complete configuration for docscan. It covers all
// commands (extract, classify, batch, serve, mcp) and is loaded from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Text cleanup and classification
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction" json:"extraction"`

	// Text sources (plain text, PDF text layer, external OCR engine)
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`

	// Scan archive
	Archive ArchiveConfig `mapstructure:"archive" yaml:"archive" json:"archive"`
}

// ExtractionConfig contains line cleanup and classification settings.
type ExtractionConfig struct {
	AutoClassify       bool   `mapstructure:"auto_classify" yaml:"auto_classify" json:"auto_classify"`
	NormalizeForm      string `mapstructure:"normalize_form" yaml:"normalize_form" json:"normalize_form"`
	RemoveControlChars bool   `mapstructure:"remove_control_chars" yaml:"remove_control_chars" json:"remove_control_chars"`
	RemoveZeroWidth    bool   `mapstructure:"remove_zero_width" yaml:"remove_zero_width" json:"remove_zero_width"`
	ReplaceTypography  bool   `mapstructure:"replace_typography" yaml:"replace_typography" json:"replace_typography"`
}

// OCRConfig contains settings for reading document files.
type OCRConfig struct {
	MaxTextBytes    int64    `mapstructure:"max_text_bytes" yaml:"max_text_bytes" json:"max_text_bytes"`
	PDFPageRange    string   `mapstructure:"pdf_page_range" yaml:"pdf_page_range" json:"pdf_page_range"`
	PDFMaxPages     int      `mapstructure:"pdf_max_pages" yaml:"pdf_max_pages" json:"pdf_max_pages"`
	Command         string   `mapstructure:"command" yaml:"command" json:"command"`
	Args            []string `mapstructure:"args" yaml:"args" json:"args"`
	TimeoutSec      int      `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ImageExtensions []string `mapstructure:"image_extensions" yaml:"image_extensions" json:"image_extensions"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host" json:"host"`
	Port            int             `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string          `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int             `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int             `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxBatchItems   int             `mapstructure:"max_batch_items" yaml:"max_batch_items" json:"max_batch_items"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig contains per-client request limits and daily quotas.
// Zero disables a limit.
type RateLimitConfig struct {
	Enabled           bool  `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDay     int64 `mapstructure:"max_data_per_day" yaml:"max_data_per_day" json:"max_data_per_day"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	Include         []string `mapstructure:"include" yaml:"include" json:"include"`
	Exclude         []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`
	SidecarDir      string   `mapstructure:"sidecar_dir" yaml:"sidecar_dir" json:"sidecar_dir"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// ArchiveConfig selects where scan results are persisted. An empty driver
// disables archiving.
type ArchiveConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn" json:"dsn"`
}
