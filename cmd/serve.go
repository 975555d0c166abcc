package cmd

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srclift/srep/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rewrite engine to MCP clients over stdio",
	Run: func(cmd *cobra.Command, args []string) {
		s := mcpserver.New(version)
		if err := server.ServeStdio(s); err != nil {
			logger.Error("MCP server stopped", zap.Error(err))
			os.Exit(1)
		}
	},
}
