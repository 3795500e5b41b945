package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/ocr"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/spf13/cobra"
)

const (
	outputFormatJSON = "json"
	outputFormatYAML = "yaml"
	outputFormatCSV  = "csv"
	outputFormatText = "text"

	stdinArg = "-"
)

var validOutputFormats = []string{outputFormatJSON, outputFormatYAML, outputFormatCSV, outputFormatText}

func validateFormat(format string) error {
	if !slices.Contains(validOutputFormats, format) {
		return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validOutputFormats, ", "))
	}
	return nil
}

// parseTypeFlag resolves the --type flag value.
func parseTypeFlag(name string) (document.Tag, error) {
	tag, ok := pipeline.ResolveType(name)
	if !ok {
		return "", fmt.Errorf("invalid document type: %s", name)
	}
	return tag, nil
}

// buildPipeline creates the pipeline and the file router for cfg.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *ocr.Router, error) {
	router := ocr.New(cfg.ToOCROptions())
	pl, err := pipeline.NewBuilder().
		WithAutoClassify(cfg.Extraction.AutoClassify).
		WithCleanOptions(cfg.ToCleanOptions()).
		WithReader(router).
		WithLogger(slog.Default()).
		Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return pl, router, nil
}

// openArchive opens the configured scan archive. It returns nil when
// archiving is disabled.
func openArchive(ctx context.Context, cfg *config.Config) (archive.Store, error) {
	if cfg.Archive.Driver == config.ArchiveNone {
		return nil, nil //nolint:nilnil // no archive configured
	}
	store, err := archive.Open(ctx, cfg.Archive.Driver, cfg.Archive.DSN, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return store, nil
}

// isStdin reports whether args select standard input.
func isStdin(args []string) bool {
	return len(args) == 0 || args[0] == stdinArg
}

// readInputText returns the raw text of the single input argument, read
// from stdin or through router.
func readInputText(cmd *cobra.Command, router ocr.Reader, args []string) (string, error) {
	if isStdin(args) {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(b), nil
	}
	if _, err := os.Stat(args[0]); err != nil {
		return "", fmt.Errorf("input file not found: %s", args[0])
	}
	return router.ReadText(cmd.Context(), args[0])
}

// formatResult renders a single result in format.
func formatResult(res *pipeline.ScanResult, format string) (string, error) {
	switch format {
	case outputFormatJSON:
		return pipeline.ToJSON(res)
	case outputFormatYAML:
		return pipeline.ToYAML(res)
	case outputFormatCSV:
		return pipeline.ToCSV(res)
	case outputFormatText:
		return pipeline.ToPlainText(res)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// writeOutput writes output to outputFile, or to the command's stdout when
// outputFile is empty.
func writeOutput(cmd *cobra.Command, output, outputFile string) error {
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	if outputFile == "" {
		_, err := io.WriteString(cmd.OutOrStdout(), output)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// stringFlag returns the flag value when it was set, else fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}

func boolFlag(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return fallback
}
