package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/mcp"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can compress
images, upload files and read upload history.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Tools:      compress_image, send_file, list_uploads
Resources:  bucketdrop://settings, bucketdrop://uploads

Examples:
  # Stdio mode (default)
  bucketdrop mcp serve

  # HTTP mode
  bucketdrop mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "bucketdrop": {
        "command": "/path/to/bucketdrop",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Pipeline: pipelineService,
		History:  historyService,
		Settings: settingsService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	// Stdout carries the protocol; notices go to the log
	notices.SetTarget(noticeFunc(logNotice))

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

func logNotice(n domain.Notice) {
	if n.Level == domain.NoticeError {
		logger.Error("%s", n.Message)
		return
	}
	logger.Info("%s", n.Message)
}
