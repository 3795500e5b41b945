package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd groups configuration helpers.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and generate configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a configuration file with the default settings",
	Long: `Write the default configuration as YAML. Without a file argument the
configuration is written to ./docscan.yaml.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := ""
		if len(args) == 1 {
			filename = args[0]
		}
		if err := config.GenerateDefaultConfigFile(filename); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}
		if filename == "" {
			filename = config.ConfigFileName + ".yaml"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", filename)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration",
	Long:         `Print the configuration after merging defaults, the config file, DOCSCAN_* environment variables and flags.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		format, _ := cmd.Flags().GetString("format")
		var (
			out []byte
			err error
		)
		switch format {
		case outputFormatYAML:
			out, err = yaml.Marshal(cfg)
		case outputFormatJSON:
			out, err = json.MarshalIndent(cfg, "", "  ")
		default:
			return fmt.Errorf("invalid output format: %s (must be one of: yaml, json)", format)
		}
		if err != nil {
			return err
		}
		if sources, _ := cmd.Flags().GetBool("sources"); sources {
			GetConfigLoader().PrintConfigInfo(cmd.ErrOrStderr())
		} else if used := GetConfigLoader().GetConfigFileUsed(); used != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "# config file: %s\n", used)
		}
		return writeOutput(cmd, string(out), "")
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().StringP("format", "f", outputFormatYAML, "output format: yaml, json")
	configShowCmd.Flags().Bool("sources", false, "print the config file, search paths and environment prefix to stderr")
}
