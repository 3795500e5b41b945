package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/MeKo-Tech/docscan/internal/ocr"
	"github.com/MeKo-Tech/docscan/internal/textlines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Extraction.AutoClassify)
	assert.Equal(t, "NFC", cfg.Extraction.NormalizeForm)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.MaxBatchItems)
	assert.False(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, runtime.NumCPU(), cfg.Batch.Workers)
	assert.Equal(t, ocr.DefaultImageExtensions, cfg.OCR.ImageExtensions)
	assert.Empty(t, cfg.Archive.Driver)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "invalid output format"},
		{"empty format allowed", func(c *Config) { c.Output.Format = "" }, ""},
		{"yaml format", func(c *Config) { c.Output.Format = "yaml" }, ""},
		{"bad normalize form", func(c *Config) { c.Extraction.NormalizeForm = "NFX" }, "invalid normalize form"},
		{"lower case normalize form", func(c *Config) { c.Extraction.NormalizeForm = "nfkc" }, ""},
		{"negative text limit", func(c *Config) { c.OCR.MaxTextBytes = -1 }, "max text bytes"},
		{"negative pdf pages", func(c *Config) { c.OCR.PDFMaxPages = -1 }, "pdf max pages"},
		{"command without timeout", func(c *Config) {
			c.OCR.Command = "tesseract"
			c.OCR.TimeoutSec = 0
		}, "invalid ocr timeout"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"upload size", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max upload size"},
		{"timeout", func(c *Config) { c.Server.TimeoutSec = -1 }, "invalid timeout"},
		{"batch items", func(c *Config) { c.Server.MaxBatchItems = 0 }, "max batch items"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit.RequestsPerHour = -5 }, "invalid rate limit"},
		{"batch workers", func(c *Config) { c.Batch.Workers = 0 }, "invalid batch workers"},
		{"bad archive driver", func(c *Config) { c.Archive.Driver = "postgres" }, "invalid archive driver"},
		{"archive without dsn", func(c *Config) { c.Archive.Driver = ArchiveSQLite }, "requires a dsn"},
		{"sqlite archive", func(c *Config) {
			c.Archive.Driver = ArchiveSQLite
			c.Archive.DSN = "scans.db"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extraction.AutoClassify = false
	cfg.Extraction.ReplaceTypography = false
	cfg.OCR.Command = "tesseract"
	cfg.OCR.Args = []string{"{input}", "stdout"}
	cfg.OCR.TimeoutSec = 5
	cfg.OCR.PDFPageRange = "1-2"
	cfg.Batch.Workers = 3

	clean := cfg.ToCleanOptions()
	want := textlines.DefaultCleanOptions()
	want.ReplaceTypography = false
	assert.Equal(t, want, clean)

	opts := cfg.ToOCROptions()
	assert.Equal(t, "tesseract", opts.Command)
	assert.Equal(t, []string{"{input}", "stdout"}, opts.Args)
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, "1-2", opts.PDFPageRange)

	opts.Args[0] = "changed"
	assert.Equal(t, "{input}", cfg.OCR.Args[0])

	pc := cfg.ToPipelineConfig()
	assert.False(t, pc.AutoClassify)
	assert.Equal(t, clean, pc.Clean)
	require.NotNil(t, pc.Reader)

	router, ok := pc.Reader.(*ocr.Router)
	require.True(t, ok)
	assert.True(t, router.Supports("scan.png"))
	assert.True(t, router.Supports("doc.pdf"))

	assert.Equal(t, 3, cfg.ToParallelConfig().MaxWorkers)
}
