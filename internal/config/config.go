package config

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/MeKo-Tech/docscan/internal/ocr"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/MeKo-Tech/docscan/internal/textlines"
)

// Archive drivers.
const (
	ArchiveNone   = ""
	ArchiveJSON   = "json"
	ArchiveSQLite = "sqlite"
)

var (
	validLogLevels      = []string{"debug", "info", "warn", "error"}
	validFormats        = []string{"text", "json", "yaml", "csv"}
	validNormalizeForms = []string{"NFC", "NFKC", "NFD", "NFKD", "none"}
	validArchiveDrivers = []string{ArchiveNone, ArchiveJSON, ArchiveSQLite}
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	clean := textlines.DefaultCleanOptions()
	return Config{
		LogLevel: "info",
		Extraction: ExtractionConfig{
			AutoClassify:       true,
			NormalizeForm:      clean.NormalizeForm,
			RemoveControlChars: clean.RemoveControlChars,
			RemoveZeroWidth:    clean.RemoveZeroWidth,
			ReplaceTypography:  clean.ReplaceTypography,
		},
		OCR: OCRConfig{
			MaxTextBytes:    10 * 1024 * 1024,
			PDFMaxPages:     20,
			TimeoutSec:      60,
			ImageExtensions: slices.Clone(ocr.DefaultImageExtensions),
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     20,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
			MaxBatchItems:   10,
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				RequestsPerHour:   1000,
				MaxRequestsPerDay: 5000,
				MaxDataPerDay:     500 * 1024 * 1024,
			},
		},
		Batch: BatchConfig{
			Workers: runtime.NumCPU(),
		},
	}
}

// Validate validates the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if c.Output.Format != "" && !slices.Contains(validFormats, c.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if c.Extraction.NormalizeForm != "" && !containsFold(validNormalizeForms, c.Extraction.NormalizeForm) {
		return fmt.Errorf("invalid normalize form: %s (must be one of: %s)",
			c.Extraction.NormalizeForm, strings.Join(validNormalizeForms, ", "))
	}

	if c.OCR.MaxTextBytes < 0 {
		return fmt.Errorf("invalid ocr max text bytes: %d (must not be negative)", c.OCR.MaxTextBytes)
	}
	if c.OCR.PDFMaxPages < 0 {
		return fmt.Errorf("invalid ocr pdf max pages: %d (must not be negative)", c.OCR.PDFMaxPages)
	}
	if c.OCR.Command != "" && c.OCR.TimeoutSec <= 0 {
		return fmt.Errorf("invalid ocr timeout: %d (must be positive when a command is set)", c.OCR.TimeoutSec)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.MaxBatchItems <= 0 {
		return fmt.Errorf("invalid max batch items: %d (must be positive)", c.Server.MaxBatchItems)
	}
	if err := c.Server.RateLimit.validate(); err != nil {
		return err
	}

	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	if !slices.Contains(validArchiveDrivers, c.Archive.Driver) {
		return fmt.Errorf("invalid archive driver: %s (must be one of: json, sqlite)", c.Archive.Driver)
	}
	if c.Archive.Driver != ArchiveNone && c.Archive.DSN == "" {
		return fmt.Errorf("archive driver %s requires a dsn", c.Archive.Driver)
	}
	return nil
}

func (r RateLimitConfig) validate() error {
	if r.RequestsPerMinute < 0 || r.RequestsPerHour < 0 || r.MaxRequestsPerDay < 0 || r.MaxDataPerDay < 0 {
		return errors.New("invalid rate limit: limits must not be negative")
	}
	return nil
}

// ToCleanOptions converts the extraction settings to line cleanup options.
func (c *Config) ToCleanOptions() textlines.CleanOptions {
	return textlines.CleanOptions{
		NormalizeForm:      c.Extraction.NormalizeForm,
		RemoveControlChars: c.Extraction.RemoveControlChars,
		RemoveZeroWidth:    c.Extraction.RemoveZeroWidth,
		ReplaceTypography:  c.Extraction.ReplaceTypography,
	}
}

// ToOCROptions converts the OCR settings to reader options.
func (c *Config) ToOCROptions() ocr.Options {
	return ocr.Options{
		MaxTextBytes:    c.OCR.MaxTextBytes,
		PDFPageRange:    c.OCR.PDFPageRange,
		PDFMaxPages:     c.OCR.PDFMaxPages,
		Command:         c.OCR.Command,
		Args:            slices.Clone(c.OCR.Args),
		Timeout:         time.Duration(c.OCR.TimeoutSec) * time.Second,
		ImageExtensions: slices.Clone(c.OCR.ImageExtensions),
	}
}

// ToPipelineConfig converts the config to the pipeline configuration,
// including a reader built from the OCR settings.
func (c *Config) ToPipelineConfig() pipeline.Config {
	return pipeline.Config{
		AutoClassify: c.Extraction.AutoClassify,
		Clean:        c.ToCleanOptions(),
		Reader:       ocr.New(c.ToOCROptions()),
	}
}

// ToParallelConfig converts the batch settings to pipeline.ParallelConfig.
func (c *Config) ToParallelConfig() pipeline.ParallelConfig {
	return pipeline.ParallelConfig{MaxWorkers: c.Batch.Workers}
}

func containsFold(slice []string, item string) bool {
	return slices.ContainsFunc(slice, func(s string) bool { return strings.EqualFold(s, item) })
}
