// Package archive persists scan results for later lookup.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/google/uuid"
)

// ErrNotFound is returned by Get for unknown record IDs.
var ErrNotFound = errors.New("scan record not found")

// Record is one archived scan.
type Record struct {
	ID            string            `json:"id"`
	Source        string            `json:"source"`
	DocumentType  document.Tag      `json:"document_type"`
	Status        string            `json:"status"`
	ExtractedText string            `json:"extracted_text"`
	ExtractedData document.FieldSet `json:"extracted_data"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewRecord converts a scan result into a record with a fresh ID.
func NewRecord(res *pipeline.ScanResult) *Record {
	return &Record{
		ID:            uuid.NewString(),
		Source:        res.Source,
		DocumentType:  res.DocumentType,
		Status:        res.Status,
		ExtractedText: res.Text,
		ExtractedData: res.ExtractedData,
		CreatedAt:     time.Now().UTC(),
	}
}

// ListOptions filters List. Zero values select everything.
type ListOptions struct {
	DocumentType document.Tag
	Limit        int
}

// Store saves and retrieves scan records. Implementations are safe for
// concurrent use.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)
	Close() error
}

// Open returns the store for driver ("json" or "sqlite") at dsn.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch driver {
	case "json":
		return NewJSONStore(dsn, logger)
	case "sqlite":
		return NewSQLiteStore(ctx, dsn, logger)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", driver)
	}
}

// SaveResult archives res and returns the stored record.
func SaveResult(ctx context.Context, store Store, res *pipeline.ScanResult) (*Record, error) {
	rec := NewRecord(res)
	if err := store.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func validateRecord(rec *Record) error {
	if rec == nil {
		return errors.New("nil record")
	}
	if rec.ID == "" {
		return errors.New("record has no id")
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		return fmt.Errorf("invalid record id %q: %w", rec.ID, err)
	}
	return nil
}
