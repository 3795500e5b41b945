package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/MeKo-Tech/docscan/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docscan",
	Short: "Field extraction for Nepali identity documents",
	Long: `docscan turns OCR text of Nepali identity documents into structured fields.

It classifies the document (citizenship certificate, passport, national ID,
birth certificate, driving license, PAN), decodes passport MRZ lines and
normalizes Devanagari numerals and dates.

This tool provides:
- Single document extraction from text, PDF or image files
- Parallel batch processing with JSON sidecars
- An HTTP API with WebSocket streaming and Prometheus metrics
- An MCP tool server for assistants

Examples:
  docscan extract scan.txt --type passport
  ocr-engine card.jpg | docscan extract - --format yaml
  docscan batch scans/ --recursive --sidecar-dir out/
  docscan serve --port 8080`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, _ := cmd.PersistentFlags().GetBool("version")
		if v {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "docscan version "+version.String())
			return nil
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
// This allows tests to execute commands without calling os.Exit().
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/docscan, /etc/docscan)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("version", false, "print version information and exit")
	rootCmd.PersistentFlags().String("archive-driver", "", "scan archive driver: json or sqlite (empty disables archiving)")
	rootCmd.PersistentFlags().String("archive-dsn", "", "scan archive location: directory for json, database file for sqlite")

	bindFlags()

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if globalConfig == nil {
			if err := loadConfig(); err != nil {
				return err
			}
		}
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), globalConfig))
		return nil
	}
}

// bindFlags binds the global flags to their viper keys.
func bindFlags() {
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("archive.driver", rootCmd.PersistentFlags().Lookup("archive-driver"))
	_ = viper.BindPFlag("archive.dsn", rootCmd.PersistentFlags().Lookup("archive-dsn"))
}

// newLogger builds the JSON logger for cfg. Logs go to w (stderr) so that
// results on stdout stay machine readable and the MCP stdio transport is
// not corrupted.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	var logLevel slog.Level
	if cfg.Verbose {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			logLevel = slog.LevelDebug
		case "warn":
			logLevel = slog.LevelWarn
		case "error":
			logLevel = slog.LevelError
		default:
			logLevel = slog.LevelInfo
		}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// initConfig reads in config file and ENV variables if set. Errors are
// reported again by PersistentPreRunE, which fails the command.
func initConfig() {
	if err := loadConfig(); err != nil {
		globalConfig = nil
	}
}

func loadConfig() error {
	configLoader = GetConfigLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	return nil
}

// GetConfig returns the global configuration, re-read from viper so that
// flag bindings made after the initial load are included.
func GetConfig() *config.Config {
	if globalConfig == nil {
		if err := loadConfig(); err != nil {
			d := config.DefaultConfig()
			return &d
		}
	}

	var cfg config.Config
	if err := GetConfigLoader().GetViper().Unmarshal(&cfg); err != nil {
		slog.Warn("Error unmarshaling updated configuration", "error", err)
		return globalConfig
	}
	return &cfg
}

// GetConfigLoader returns the global configuration loader.
func GetConfigLoader() *config.Loader {
	if configLoader == nil {
		configLoader = config.NewLoader()
	}
	return configLoader
}

// ResetConfig drops the loaded configuration and restores every flag of
// the command tree to its default, so the next command starts clean.
// In-process test runs call it between commands.
func ResetConfig() {
	globalConfig = nil
	configLoader = nil
	cfgFile = ""
	resetFlags(rootCmd)
	viper.Reset()
	bindFlags()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			def := strings.Trim(f.DefValue, "[]")
			var vals []string
			if def != "" {
				vals = strings.Split(def, ",")
			}
			_ = sv.Replace(vals)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
