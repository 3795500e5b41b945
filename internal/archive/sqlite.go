package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/docscan/internal/document"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	document_type  TEXT NOT NULL,
	status         TEXT NOT NULL,
	extracted_text TEXT NOT NULL,
	extracted_data TEXT NOT NULL,
	created_at     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS scans_document_type ON scans (document_type, created_at);
`

// createdAtLayout has a fixed width so that text ordering is time ordering.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens the database at dsn (a file path or ":memory:") and
// creates the schema.
func NewSQLiteStore(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New("sqlite archive needs a dsn")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("opening scan archive", "dsn", dsn)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	// One connection serializes writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	data, err := json.Marshal(rec.ExtractedData)
	if err != nil {
		return fmt.Errorf("failed to encode extracted data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scans (id, source, document_type, status, extracted_text, extracted_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Source, string(rec.DocumentType), rec.Status, rec.ExtractedText, string(data),
		rec.CreatedAt.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan %s: %w", rec.ID, err)
	}
	s.logger.Debug("scan archived", "id", rec.ID, "document_type", rec.DocumentType, "store", "sqlite")
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, source, document_type, status, extracted_text, extracted_data, created_at
		 FROM scans WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	query := `SELECT id, source, document_type, status, extracted_text, extracted_data, created_at FROM scans`
	var args []any
	if opts.DocumentType != "" {
		query += ` WHERE document_type = ?`
		args = append(args, string(opts.DocumentType))
	}
	query += ` ORDER BY created_at DESC, id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec       Record
		docType   string
		data      string
		createdAt string
	)
	if err := row.Scan(&rec.ID, &rec.Source, &docType, &rec.Status, &rec.ExtractedText, &data, &createdAt); err != nil {
		return nil, err
	}
	rec.DocumentType = document.Tag(docType)
	if err := json.Unmarshal([]byte(data), &rec.ExtractedData); err != nil {
		return nil, fmt.Errorf("failed to decode extracted data of %s: %w", rec.ID, err)
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at of %s: %w", rec.ID, err)
	}
	rec.CreatedAt = t
	return &rec, nil
}
