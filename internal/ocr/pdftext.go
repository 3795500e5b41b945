package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/pdf"
)

// PDFTextReader reads the embedded text layer of a PDF. When the layer is
// empty (a scanned PDF) and Scanned is set, the file is passed to Scanned
// instead.
type PDFTextReader struct {
	PageRange string
	MaxPages  int    // 0 means unlimited
	Scanned   Reader // optional
}

func (r PDFTextReader) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	pages, err := pdf.PageCount(path)
	if err != nil {
		return "", err
	}
	if r.MaxPages > 0 && pages > r.MaxPages {
		return "", fmt.Errorf("%s has %d pages, limit is %d", path, pages, r.MaxPages)
	}

	text, err := pdf.NewTextExtractor(r.PageRange).ExtractText(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" || r.Scanned == nil {
		return text, nil
	}

	slog.Debug("PDF has no text layer, using OCR engine", "path", path, "pages", pages)
	return r.Scanned.ReadText(ctx, path)
}
