package pipeline

import (
	"errors"
	"time"

	"github.com/MeKo-Tech/docscan/internal/document"
)

var (
	// ErrNoText means normalization left no lines to extract from.
	ErrNoText = errors.New("no extractable text")
	// ErrUnsupportedType means no extractor exists for the document type.
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrNoReader means a file was given but no text reader is configured.
	ErrNoReader = errors.New("no text reader configured")
)

// Result statuses.
const (
	StatusSuccess      = "success"
	StatusNotSupported = "not_supported"
)

// How the document type of a result was decided.
const (
	TypeFromCaller     = "caller"
	TypeFromClassifier = "classifier"
)

// ScanResult is the outcome of extracting one document.
type ScanResult struct {
	Source            string            `json:"source,omitempty"             yaml:"source,omitempty"`
	Status            string            `json:"status"                       yaml:"status"`
	DocumentType      document.Tag      `json:"document_type"                yaml:"document_type"`
	TypeSource        string            `json:"type_source"                  yaml:"type_source"`
	ClassifierKeyword string            `json:"classifier_keyword,omitempty" yaml:"classifier_keyword,omitempty"`
	Supported         bool              `json:"supported"                    yaml:"supported"`
	ExtractedData     document.FieldSet `json:"extracted_data"               yaml:"extracted_data"`
	FieldsFound       int               `json:"fields_found"                 yaml:"fields_found"`
	FieldsTotal       int               `json:"fields_total"                 yaml:"fields_total"`
	LineCount         int               `json:"line_count"                   yaml:"line_count"`
	Processing        ProcessingInfo    `json:"processing"                   yaml:"processing"`

	// Text is the normalized input, kept for archiving.
	Text string `json:"-" yaml:"-"`
}

// ProcessingInfo records when and how fast a document was processed.
type ProcessingInfo struct {
	StartedAt  time.Time `json:"started_at"  yaml:"started_at"`
	DurationMs float64   `json:"duration_ms" yaml:"duration_ms"`
}

// Input is one item for ProcessParallel. Either Text or Path is set; Path
// is read through the configured reader.
type Input struct {
	Name string
	Text string
	Path string
	Type document.Tag
}

// ItemResult pairs an input with its outcome.
type ItemResult struct {
	Index  int
	Input  Input
	Result *ScanResult
	Err    error
}
