package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/spf13/cobra"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract identity fields from one document",
	Long: `Extract the identity fields of a single document.

The input is a text file holding OCR output, a PDF with a text layer or,
when an OCR command is configured, an image. Without a file argument (or
with "-") the OCR text is read from standard input.

The document type is classified from the text unless --type names it.

Examples:
  docscan extract scan.txt
  docscan extract passport.pdf --type passport --format yaml
  cat nid.txt | docscan extract - --format csv --output nid.csv`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runExtractCommand,
}

func runExtractCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	format := stringFlag(cmd, "format", cfg.Output.Format)
	if err := validateFormat(format); err != nil {
		return err
	}
	outputFile := stringFlag(cmd, "output", cfg.Output.File)

	typeName, _ := cmd.Flags().GetString("type")
	tag, err := parseTypeFlag(typeName)
	if err != nil {
		return err
	}

	pl, router, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	var res *pipeline.ScanResult
	if isStdin(args) {
		text, err := readInputText(cmd, router, args)
		if err != nil {
			return err
		}
		res, err = pl.Process(text, tag)
		if err != nil {
			return describeExtractError(err)
		}
		res.Source = "stdin"
	} else {
		res, err = pl.ProcessFile(cmd.Context(), args[0], tag)
		if err != nil {
			return describeExtractError(err)
		}
	}

	store, err := openArchive(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
		rec, err := archive.SaveResult(cmd.Context(), store, res)
		if err != nil {
			return fmt.Errorf("failed to archive result: %w", err)
		}
		slog.Info("Scan archived", "id", rec.ID, "document_type", rec.DocumentType)
	}

	output, err := formatResult(res, format)
	if err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}
	return writeOutput(cmd, output, outputFile)
}

// describeExtractError adds a hint to the input errors a user can fix.
func describeExtractError(err error) error {
	if errors.Is(err, pipeline.ErrUnsupportedType) {
		return fmt.Errorf("extraction failed: %w (use --type to name the document type)", err)
	}
	return fmt.Errorf("extraction failed: %w", err)
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("type", "t", pipeline.AutoType,
		"document type: citizenship, passport, national_id, birth_certificate, driving_license, pan or auto")
	extractCmd.Flags().StringP("format", "f", outputFormatJSON, "output format: json, yaml, csv, text")
	extractCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
}
