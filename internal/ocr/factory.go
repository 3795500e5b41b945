package ocr

import "time"

// Options configures the default set of readers.
type Options struct {
	MaxTextBytes    int64
	PDFPageRange    string
	PDFMaxPages     int
	Command         string
	Args            []string
	Timeout         time.Duration
	ImageExtensions []string
}

// DefaultImageExtensions are routed to the OCR command when one is set.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp"}

// New builds a router for text files, PDFs and, when a command is
// configured, images. Scanned PDFs fall back to the command as well.
func New(opts Options) *Router {
	router := NewRouter().Handle(PlainTextReader{MaxBytes: opts.MaxTextBytes}, ".txt", ".text")

	pdfReader := PDFTextReader{PageRange: opts.PDFPageRange, MaxPages: opts.PDFMaxPages}
	if opts.Command != "" {
		engine := CommandReader{Command: opts.Command, Args: opts.Args, Timeout: opts.Timeout}
		exts := opts.ImageExtensions
		if len(exts) == 0 {
			exts = DefaultImageExtensions
		}
		router.Handle(engine, exts...)
		pdfReader.Scanned = engine
	}
	return router.Handle(pdfReader, ".pdf")
}
