package archive

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/MeKo-Tech/docscan/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func scan(t *testing.T, text string, tag document.Tag) *pipeline.ScanResult {
	t.Helper()
	res, err := pipeline.New(pipeline.DefaultConfig()).Process(text, tag)
	require.NoError(t, err)
	res.Source = string(res.DocumentType) + ".txt"
	return res
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	js, err := Open(ctx, "json", filepath.Join(t.TempDir(), "scans"), quietLogger)
	require.NoError(t, err)
	sq, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "scans.db"), quietLogger)
	require.NoError(t, err)
	mem, err := Open(ctx, "sqlite", ":memory:", quietLogger)
	require.NoError(t, err)

	all := map[string]Store{"json": js, "sqlite": sq, "sqlite-memory": mem}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestNewRecord(t *testing.T) {
	res := scan(t, testutil.NationalIDText, "")
	rec := NewRecord(res)

	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "national_id.txt", rec.Source)
	assert.Equal(t, document.NationalID, rec.DocumentType)
	assert.Equal(t, pipeline.StatusSuccess, rec.Status)
	assert.Equal(t, res.Text, rec.ExtractedText)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
	assert.NotEqual(t, rec.ID, NewRecord(res).ID)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			res := scan(t, testutil.PassportText, document.Passport)
			rec, err := SaveResult(ctx, store, res)
			require.NoError(t, err)

			got, err := store.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, rec.ID, got.ID)
			assert.Equal(t, rec.Source, got.Source)
			assert.Equal(t, document.Passport, got.DocumentType)
			assert.Equal(t, rec.ExtractedText, got.ExtractedText)
			assert.Equal(t, res.ExtractedData.Keys(), got.ExtractedData.Keys())
			assert.Equal(t, res.ExtractedData.Map(), got.ExtractedData.Map())
			assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestStoreNotSupportedRecord(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			rec, err := SaveResult(ctx, store, scan(t, testutil.DrivingLicenseText, ""))
			require.NoError(t, err)

			got, err := store.Get(ctx, rec.ID)
			require.NoError(t, err)
			assert.Equal(t, pipeline.StatusNotSupported, got.Status)
			assert.Equal(t, 0, got.ExtractedData.Len())
		})
	}
}

func TestStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, uuid.NewString())
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			texts := []struct {
				text string
				tag  document.Tag
			}{
				{testutil.CitizenshipText, document.Citizenship},
				{testutil.NationalIDText, document.NationalID},
				{testutil.CitizenshipNepaliText, document.Citizenship},
			}
			var ids []string
			for i, tt := range texts {
				rec := NewRecord(scan(t, tt.text, tt.tag))
				rec.CreatedAt = base.Add(time.Duration(i) * 1500 * time.Millisecond)
				require.NoError(t, store.Save(ctx, rec))
				ids = append(ids, rec.ID)
			}

			all, err := store.List(ctx, ListOptions{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{ids[2], ids[1], ids[0]}, recordIDs(all))

			cit, err := store.List(ctx, ListOptions{DocumentType: document.Citizenship})
			require.NoError(t, err)
			assert.Equal(t, []string{ids[2], ids[0]}, recordIDs(cit))

			limited, err := store.List(ctx, ListOptions{Limit: 1})
			require.NoError(t, err)
			assert.Equal(t, []string{ids[2]}, recordIDs(limited))

			none, err := store.List(ctx, ListOptions{DocumentType: document.PAN})
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func recordIDs(records []*Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

func TestSaveRejectsInvalidRecords(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.Error(t, store.Save(ctx, nil))
			require.Error(t, store.Save(ctx, &Record{}))
			require.Error(t, store.Save(ctx, &Record{ID: "../escape"}))
		})
	}
}

func TestSQLiteDuplicateID(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(ctx, ":memory:", quietLogger)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	rec := NewRecord(scan(t, testutil.NationalIDText, ""))
	require.NoError(t, store.Save(ctx, rec))
	require.Error(t, store.Save(ctx, rec))
}

func TestJSONStoreSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewJSONStore(dir, quietLogger)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o600))
	rec, err := SaveResult(ctx, store, scan(t, testutil.NationalIDText, ""))
	require.NoError(t, err)

	all, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{rec.ID}, recordIDs(all))

	_, err = store.Get(ctx, "../"+rec.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, "postgres", "x", nil)
	require.Error(t, err)

	_, err = Open(ctx, "json", "", nil)
	require.Error(t, err)

	_, err = Open(ctx, "sqlite", "", nil)
	require.Error(t, err)
}
