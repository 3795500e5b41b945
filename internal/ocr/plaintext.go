package ocr

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// PlainTextReader reads text files that already hold OCR output.
type PlainTextReader struct {
	MaxBytes int64 // 0 means unlimited
}

func (r PlainTextReader) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(path) //nolint:gosec // G304: reading caller supplied document paths is the purpose
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var src io.Reader = f
	if r.MaxBytes > 0 {
		src = io.LimitReader(f, r.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if r.MaxBytes > 0 && int64(len(data)) > r.MaxBytes {
		return "", fmt.Errorf("%s exceeds %d bytes", path, r.MaxBytes)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8 text", path)
	}
	return string(data), nil
}
