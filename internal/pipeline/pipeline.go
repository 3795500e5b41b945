package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MeKo-Tech/docscan/internal/classify"
	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/extract"
	"github.com/MeKo-Tech/docscan/internal/ocr"
	"github.com/MeKo-Tech/docscan/internal/textlines"
)

// Config holds configuration for the extraction pipeline.
type Config struct {
	// AutoClassify runs the keyword classifier when no type is given.
	AutoClassify bool
	Clean        textlines.CleanOptions
	Registry     *extract.Registry // nil selects extract.DefaultRegistry
	Reader       ocr.Reader        // optional, needed by ProcessFile
	Logger       *slog.Logger      // nil selects slog.Default
}

// DefaultConfig returns a configuration with classification enabled and
// the default line cleanup.
func DefaultConfig() Config {
	return Config{
		AutoClassify: true,
		Clean:        textlines.DefaultCleanOptions(),
	}
}

// Builder provides a fluent API to configure and build a Pipeline.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithAutoClassify toggles classification of untyped input.
func (b *Builder) WithAutoClassify(enabled bool) *Builder {
	b.cfg.AutoClassify = enabled
	return b
}

// WithCleanOptions sets the per-line cleanup.
func (b *Builder) WithCleanOptions(opts textlines.CleanOptions) *Builder {
	b.cfg.Clean = opts
	return b
}

// WithNormalizeForm sets the Unicode normalization form used for cleanup.
func (b *Builder) WithNormalizeForm(form string) *Builder {
	b.cfg.Clean.NormalizeForm = form
	return b
}

// WithRegistry replaces the extractor registry.
func (b *Builder) WithRegistry(reg *extract.Registry) *Builder {
	b.cfg.Registry = reg
	return b
}

// WithReader sets the text source used by ProcessFile.
func (b *Builder) WithReader(r ocr.Reader) *Builder {
	b.cfg.Reader = r
	return b
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.cfg.Logger = l
	return b
}

// Config returns the current configuration.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks the builder configuration.
func (b *Builder) Validate() error {
	switch strings.ToUpper(b.cfg.Clean.NormalizeForm) {
	case "", "NFC", "NFKC", "NFD", "NFKD", "NONE":
	default:
		return fmt.Errorf("invalid normalize form: %q", b.cfg.Clean.NormalizeForm)
	}
	return nil
}

// Build validates the configuration and returns a Pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return New(b.cfg), nil
}

// Pipeline normalizes OCR text, decides the document type and runs the
// matching extractor. It holds no per-call state and is safe for
// concurrent use.
type Pipeline struct {
	cfg      Config
	registry *extract.Registry
	logger   *slog.Logger
}

// New returns a pipeline for cfg.
func New(cfg Config) *Pipeline {
	reg := cfg.Registry
	if reg == nil {
		reg = extract.DefaultRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, registry: reg, logger: logger}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Registry returns the extractor registry.
func (p *Pipeline) Registry() *extract.Registry { return p.registry }

// Classify normalizes raw and reports the detected document type.
func (p *Pipeline) Classify(raw string) classify.Match {
	return classify.Explain(textlines.Join(textlines.NormalizeWith(raw, p.cfg.Clean)))
}

// Process extracts the fields of raw as a document of type tag. An empty
// or Unknown tag is classified when AutoClassify is set. It returns
// ErrNoText when nothing is left after normalization and
// ErrUnsupportedType when no extractor exists for the resolved type.
// Types with a placeholder extractor succeed with StatusNotSupported.
func (p *Pipeline) Process(raw string, tag document.Tag) (*ScanResult, error) {
	start := time.Now()

	lines := textlines.NormalizeWith(raw, p.cfg.Clean)
	if len(lines) == 0 {
		return nil, ErrNoText
	}

	res := &ScanResult{
		DocumentType: tag,
		TypeSource:   TypeFromCaller,
		LineCount:    len(lines),
		Text:         textlines.Join(lines),
		Processing:   ProcessingInfo{StartedAt: start.UTC()},
	}
	if tag == "" || tag == document.Unknown {
		res.DocumentType = document.Unknown
		if p.cfg.AutoClassify {
			m := classify.Explain(res.Text)
			res.DocumentType = m.Tag
			res.TypeSource = TypeFromClassifier
			res.ClassifierKeyword = m.Keyword
		}
	}

	ext, ok := p.registry.Lookup(res.DocumentType)
	if !ok {
		p.logger.Debug("no extractor for document", "document_type", res.DocumentType, "type_source", res.TypeSource)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, res.DocumentType)
	}

	res.ExtractedData = ext.Extract(lines)
	res.Supported = ext.Supported()
	res.Status = StatusSuccess
	if !res.Supported {
		res.Status = StatusNotSupported
	}
	res.FieldsFound = res.ExtractedData.Found()
	res.FieldsTotal = res.ExtractedData.Len()
	res.Processing.DurationMs = float64(time.Since(start).Microseconds()) / 1000.0

	p.logger.Debug("document extracted",
		"document_type", res.DocumentType,
		"type_source", res.TypeSource,
		"status", res.Status,
		"fields_found", res.FieldsFound,
		"fields_total", res.FieldsTotal,
		"lines", res.LineCount,
	)
	return res, nil
}

// ProcessFile reads path through the configured reader and processes the
// text.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, tag document.Tag) (*ScanResult, error) {
	if p.cfg.Reader == nil {
		return nil, ErrNoReader
	}
	text, err := p.cfg.Reader.ReadText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := p.Process(text, tag)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Source = path
	return res, nil
}

// IsInputError reports whether err is caused by the input document rather
// than by the environment.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoText) || errors.Is(err, ErrUnsupportedType)
}
