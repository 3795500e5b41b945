// Package batch runs the extraction pipeline over many document files.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/MeKo-Tech/docscan/internal/pipeline"
)

// ErrNoFiles is returned when discovery finds nothing to process.
var ErrNoFiles = errors.New("no document files found")

// ProcessBatch discovers the documents under paths and processes them with
// pl. When ContinueOnError is false, the result is returned together with
// an error naming the first failed document.
func ProcessBatch(ctx context.Context, pl *pipeline.Pipeline, paths []string, config *Config) (*Result, error) {
	files, err := discoverFiles(paths, config.Recursive, filter{
		include:    config.IncludePatterns,
		exclude:    config.ExcludePatterns,
		extensions: config.Extensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover document files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	parallel := pipeline.ParallelConfig{MaxWorkers: workers}
	if config.ShowProgress && !config.Quiet {
		w := config.ProgressWriter
		if w == nil {
			w = os.Stderr
		}
		parallel.ProgressCallback = pipeline.NewConsoleProgressCallback(w, "Processing: ")
	} else if config.ProgressInterval > 0 {
		parallel.ProgressCallback = pipeline.NewLogProgressCallback(slog.Default(), slog.LevelInfo).
			WithInterval(config.ProgressInterval)
	}

	slog.Debug("batch starting", "files", len(files), "workers", workers, "type", config.Type)
	start := time.Now()
	items, err := processFiles(ctx, pl, files, config.Type, parallel)
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("batch processing failed: %w", err)
	}

	res := &Result{
		Items:       items,
		Files:       files,
		Duration:    duration,
		WorkerCount: parallel.MaxWorkers,
	}

	if config.SidecarDir != "" {
		written, err := writeSidecars(config.SidecarDir, items)
		res.Sidecars = written
		if err != nil {
			return res, err
		}
	}

	if !config.ContinueOnError {
		if err := pipeline.FirstError(items); err != nil {
			return res, fmt.Errorf("batch processing failed: %w", err)
		}
	}
	return res, nil
}
