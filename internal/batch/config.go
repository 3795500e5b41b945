package batch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
)

// Config holds all configuration for batch processing.
type Config struct {
	// Document type applied to every file; empty means classify each one.
	Type document.Tag

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
	// Extensions accepted while walking directories when no include
	// pattern is set. Empty accepts every file.
	Extensions []string

	// Processing settings
	Workers         int
	ContinueOnError bool

	// Output settings
	Format     string
	OutputFile string
	SidecarDir string

	// Progress settings
	ShowProgress     bool
	Quiet            bool
	ShowStats        bool
	ProgressInterval int
	ProgressWriter   io.Writer // nil selects stderr
}

// Result holds the result of batch processing.
type Result struct {
	Items       []pipeline.ItemResult
	Files       []string
	Sidecars    []string
	Duration    time.Duration
	WorkerCount int
}

// Stats returns aggregate counts for the batch.
func (r *Result) Stats() pipeline.ParallelStats {
	return pipeline.CalculateParallelStats(r.Items)
}

// FormatResults formats the batch results in the given format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Items, format)
}

// SaveResults writes the formatted results to outputFile, or to w when
// outputFile is empty.
func (r *Result) SaveResults(w io.Writer, format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile == "" {
		_, err := fmt.Fprintln(w, output)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(output+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(w, "Results written to %s\n", outputFile)
	}
	return nil
}

// PrintStats writes processing statistics to w.
func (r *Result) PrintStats(w io.Writer, quiet bool) {
	if quiet {
		return
	}
	st := r.Stats()
	_, _ = fmt.Fprintf(w, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(w, "  Total documents: %d\n", st.Total)
	_, _ = fmt.Fprintf(w, "  Processed: %d\n", st.Succeeded)
	_, _ = fmt.Fprintf(w, "  Not supported: %d\n", st.Unsupported)
	_, _ = fmt.Fprintf(w, "  Failed: %d\n", st.Failed)
	_, _ = fmt.Fprintf(w, "  Fields found: %d/%d\n", st.FieldsFound, st.FieldsTotal)
	_, _ = fmt.Fprintf(w, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(w, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if st.Total > 0 && r.Duration > 0 {
		_, _ = fmt.Fprintf(w, "  Throughput: %.1f documents/sec\n", float64(st.Total)/r.Duration.Seconds())
	}
}
