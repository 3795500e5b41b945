package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// classifyCmd represents the classify command.
var classifyCmd = &cobra.Command{
	Use:   "classify [file|-]",
	Short: "Detect the document type of OCR text",
	Long: `Detect which identity document a text belongs to from its keywords.

Examples:
  docscan classify scan.txt
  docscan classify scan.txt --explain
  cat scan.txt | docscan classify --format json`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		format, _ := cmd.Flags().GetString("format")
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
		}
		explain, _ := cmd.Flags().GetBool("explain")

		pl, router, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		text, err := readInputText(cmd, router, args)
		if err != nil {
			return err
		}

		m := pl.Classify(text)
		if format == outputFormatJSON {
			b, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, string(b), "")
		}

		output := string(m.Tag)
		if explain {
			if m.Keyword != "" {
				output += fmt.Sprintf(" (matched keyword %q)", m.Keyword)
			} else {
				output += " (no keyword matched)"
			}
		}
		return writeOutput(cmd, output, "")
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().Bool("explain", false, "show the keyword that decided the type")
	classifyCmd.Flags().StringP("format", "f", outputFormatText, "output format: text, json")
}
