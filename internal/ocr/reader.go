// Package ocr provides the text sources the extraction pipeline reads
// from. The OCR engine itself is an external program; this package only
// wraps it behind the Reader interface.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned when no reader handles a file type.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Reader produces the raw text of a document file.
type Reader interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, path string) (string, error)

func (f ReaderFunc) ReadText(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Router dispatches on the file extension.
type Router struct {
	byExt    map[string]Reader
	fallback Reader
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{byExt: make(map[string]Reader)}
}

// Handle registers reader for the given extensions (with or without the
// leading dot, any case).
func (r *Router) Handle(reader Reader, exts ...string) *Router {
	for _, ext := range exts {
		r.byExt[normalizeExt(ext)] = reader
	}
	return r
}

// Fallback sets the reader used for unregistered extensions.
func (r *Router) Fallback(reader Reader) *Router {
	r.fallback = reader
	return r
}

// Extensions returns the registered extensions, sorted.
func (r *Router) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Supports reports whether path would be routed to a reader.
func (r *Router) Supports(path string) bool {
	if r.fallback != nil {
		return true
	}
	_, ok := r.byExt[normalizeExt(filepath.Ext(path))]
	return ok
}

func (r *Router) ReadText(ctx context.Context, path string) (string, error) {
	if reader, ok := r.byExt[normalizeExt(filepath.Ext(path))]; ok {
		return reader.ReadText(ctx, path)
	}
	if r.fallback != nil {
		return r.fallback.ReadText(ctx, path)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
