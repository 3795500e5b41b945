package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MeKo-Tech/docscan/internal/mcp"
	"github.com/MeKo-Tech/docscan/internal/version"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve extraction tools over the Model Context Protocol",
	Long: `Run an MCP server on stdin/stdout exposing the tools
classify_document, extract_document, extract_file and list_document_types.

Example client configuration:
  {"command": "docscan", "args": ["mcp"]}`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		pl, _, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		mcpServer, err := mcp.NewServer(pl, name, version.Version, nil)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mcpServer.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("name", "docscan", "server name announced to MCP clients")
}
