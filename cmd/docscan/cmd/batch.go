package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/batch"
	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/spf13/cobra"
)

// batchCmd represents the batch command for parallel document processing.
var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Extract fields from many documents in parallel",
	Long: `Process many document files in parallel. Directories are expanded to
the files the configured readers support (text, PDF and, with an OCR
command, images).

With --sidecar-dir every successful result is also written as
<name>_scan.json into that directory.

Examples:
  docscan batch scans/*.txt
  docscan batch scans/ --recursive --workers 8
  docscan batch scans/ --type citizenship --format csv --output fields.csv
  docscan batch scans/ --sidecar-dir results/ --continue-on-error`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

// configToBatchConfig maps centralized configuration to batch.Config.
// Flags set on the command line override the configuration.
func configToBatchConfig(cfg *config.Config, cmd *cobra.Command) (*batch.Config, error) {
	batchConfig := &batch.Config{}

	typeName, _ := cmd.Flags().GetString("type")
	tag, err := parseTypeFlag(typeName)
	if err != nil {
		return nil, err
	}
	batchConfig.Type = tag

	batchConfig.Format = stringFlag(cmd, "format", cfg.Output.Format)
	if err := validateFormat(batchConfig.Format); err != nil {
		return nil, err
	}
	batchConfig.OutputFile = stringFlag(cmd, "output", cfg.Output.File)
	batchConfig.SidecarDir = stringFlag(cmd, "sidecar-dir", cfg.Batch.SidecarDir)

	batchConfig.Workers = intFlag(cmd, "workers", cfg.Batch.Workers)
	batchConfig.ContinueOnError = boolFlag(cmd, "continue-on-error", cfg.Batch.ContinueOnError)
	batchConfig.Recursive = boolFlag(cmd, "recursive", cfg.Batch.Recursive)

	batchConfig.IncludePatterns = cfg.Batch.Include
	if cmd.Flags().Changed("include") {
		batchConfig.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
	}
	batchConfig.ExcludePatterns = cfg.Batch.Exclude
	if cmd.Flags().Changed("exclude") {
		batchConfig.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
	}

	batchConfig.ShowProgress, _ = cmd.Flags().GetBool("progress")
	batchConfig.Quiet, _ = cmd.Flags().GetBool("quiet")
	batchConfig.ShowStats, _ = cmd.Flags().GetBool("stats")
	batchConfig.ProgressInterval, _ = cmd.Flags().GetInt("progress-interval")
	batchConfig.ProgressWriter = cmd.ErrOrStderr()

	return batchConfig, nil
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	batchConfig, err := configToBatchConfig(cfg, cmd)
	if err != nil {
		return err
	}

	pl, router, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	batchConfig.Extensions = router.Extensions()

	result, err := batch.ProcessBatch(cmd.Context(), pl, args, batchConfig)
	if result == nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	if archiveErr := archiveBatch(cmd, cfg, result); archiveErr != nil {
		return archiveErr
	}

	// Results are written even when a document failed.
	if saveErr := result.SaveResults(cmd.OutOrStdout(), batchConfig.Format, batchConfig.OutputFile, batchConfig.Quiet); saveErr != nil {
		return fmt.Errorf("failed to save results: %w", saveErr)
	}
	if batchConfig.ShowStats {
		result.PrintStats(cmd.ErrOrStderr(), batchConfig.Quiet)
	}
	return err
}

// archiveBatch stores every successful result in the configured archive.
func archiveBatch(cmd *cobra.Command, cfg *config.Config, result *batch.Result) error {
	store, err := openArchive(cmd.Context(), cfg)
	if err != nil || store == nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved := 0
	for _, it := range result.Items {
		if it.Err != nil || it.Result == nil {
			continue
		}
		if _, err := archive.SaveResult(cmd.Context(), store, it.Result); err != nil {
			return fmt.Errorf("failed to archive %s: %w", it.Result.Source, err)
		}
		saved++
	}
	slog.Info("Batch archived", "records", saved, "driver", cfg.Archive.Driver)
	return nil
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("type", "t", pipeline.AutoType, "document type for every file, or auto to classify each")

	// Output flags
	batchCmd.Flags().StringP("format", "f", outputFormatJSON, "output format: json, yaml, csv, text")
	batchCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	batchCmd.Flags().String("sidecar-dir", "", "directory for per-document <name>_scan.json files")

	// Parallel processing flags
	batchCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("number of parallel workers (default: %d)", runtime.NumCPU()))
	batchCmd.Flags().Bool("continue-on-error", false, "keep going and exit successfully when documents fail")

	// File discovery flags
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().StringSlice("include", []string{}, "file patterns to include")
	batchCmd.Flags().StringSlice("exclude", []string{}, "file patterns to exclude")

	// Progress and monitoring flags
	batchCmd.Flags().Bool("progress", false, "show progress bar")
	batchCmd.Flags().Bool("quiet", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "show processing statistics")
	batchCmd.Flags().Int("progress-interval", 0, "log progress every N documents (0 disables)")
}
