package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
)

// SidecarSuffix is appended to a document's base name for its result file.
const SidecarSuffix = "_scan.json"

func buildInputs(files []string, tag document.Tag) []pipeline.Input {
	inputs := make([]pipeline.Input, len(files))
	for i, f := range files {
		inputs[i] = pipeline.Input{Name: f, Path: f, Type: tag}
	}
	return inputs
}

func processFiles(
	ctx context.Context,
	pl *pipeline.Pipeline,
	files []string,
	tag document.Tag,
	cfg pipeline.ParallelConfig,
) ([]pipeline.ItemResult, error) {
	return pl.ProcessParallel(ctx, buildInputs(files, tag), cfg)
}

// sidecarPath returns dir/<base>_scan.json for a source document.
func sidecarPath(dir, source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+SidecarSuffix)
}

// writeSidecars stores every successful result next to the others in dir.
// Documents sharing a base name overwrite each other's sidecar.
func writeSidecars(dir string, items []pipeline.ItemResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create sidecar directory: %w", err)
	}

	var written []string
	for _, it := range items {
		if it.Err != nil || it.Result == nil {
			continue
		}
		out, err := pipeline.ToJSON(it.Result)
		if err != nil {
			return written, err
		}
		path := sidecarPath(dir, it.Result.Source)
		if err := os.WriteFile(path, []byte(out+"\n"), 0o600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
