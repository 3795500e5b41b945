package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/spf13/cobra"
)

// scansCmd lists and shows archived scans.
var scansCmd = &cobra.Command{
	Use:   "scans [id]",
	Short: "List archived scans or show one by id",
	Long: `Read the scan archive configured with --archive-driver and --archive-dsn
(or the archive section of the configuration file).

Examples:
  docscan scans --archive-driver sqlite --archive-dsn scans.db
  docscan scans --type passport --limit 5
  docscan scans 2f1c0e9a-5b7d-4d38-9a61-0c8d7e3f4b21`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		store, err := openArchive(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("no scan archive configured (set --archive-driver and --archive-dsn)")
		}
		defer func() { _ = store.Close() }()

		if len(args) == 1 {
			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load scan %s: %w", args[0], err)
			}
			b, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, string(b), "")
		}

		var opts archive.ListOptions
		if name, _ := cmd.Flags().GetString("type"); name != "" {
			tag, err := parseTypeFlag(name)
			if err != nil {
				return err
			}
			opts.DocumentType = tag
		}
		opts.Limit, _ = cmd.Flags().GetInt("limit")

		records, err := store.List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to list scans: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case outputFormatJSON:
			if records == nil {
				records = []*archive.Record{}
			}
			b, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd, string(b), "")
		case outputFormatText:
			var sb strings.Builder
			tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tSOURCE\tCREATED")
			for _, rec := range records {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID, rec.DocumentType, rec.Status, rec.Source, rec.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			_ = tw.Flush()
			return writeOutput(cmd, sb.String(), "")
		default:
			return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(scansCmd)
	scansCmd.Flags().StringP("type", "t", "", "only list scans of this document type")
	scansCmd.Flags().Int("limit", 20, "maximum number of scans to list (0 for all)")
	scansCmd.Flags().StringP("format", "f", outputFormatText, "output format: text, json")
}
