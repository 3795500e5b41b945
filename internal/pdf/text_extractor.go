package pdf

import (
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// PageText is the text layer of one page.
type PageText struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
}

// TextExtractor reads vector text from PDFs. Scanned PDFs without a text
// layer yield pages with empty text.
type TextExtractor struct {
	pageRange string
}

// NewTextExtractor returns an extractor limited to pageRange ("" for all
// pages).
func NewTextExtractor(pageRange string) *TextExtractor {
	return &TextExtractor{pageRange: pageRange}
}

// ExtractPages returns the text of the selected pages in page order. Pages
// outside the document are skipped.
func (e *TextExtractor) ExtractPages(filename string) ([]PageText, error) {
	pageNumbers, err := parsePageRange(e.pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", e.pageRange, err)
	}

	reader, err := pdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %q: %w", filename, err)
	}

	total := reader.NumPage()
	if len(pageNumbers) == 0 {
		for i := 1; i <= total; i++ {
			pageNumbers = append(pageNumbers, i)
		}
	}

	pages := make([]PageText, 0, len(pageNumbers))
	for _, n := range pageNumbers {
		if n < 1 || n > total {
			continue
		}
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text := pageText(page)
		pages = append(pages, PageText{
			PageNumber: n,
			Text:       text,
			WordCount:  len(strings.Fields(text)),
		})
	}
	return pages, nil
}

// ExtractText returns the selected pages joined by newlines.
func (e *TextExtractor) ExtractText(filename string) (string, error) {
	pages, err := e.ExtractPages(filename)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// pageText keeps the row structure when the library can recover it, so
// that labels and values stay on separate lines.
func pageText(page pdf.Page) string {
	var b strings.Builder
	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		for _, row := range rows {
			words := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				words = append(words, t.S)
			}
			b.WriteString(strings.Join(words, " "))
			b.WriteString("\n")
		}
		return b.String()
	}

	plain, err := page.GetPlainText(make(map[string]*pdf.Font))
	if err != nil {
		return ""
	}
	return plain
}
