// Package mcpserver exposes the rewrite engine to MCP clients over stdio.
//
// This is the composition root for the server: every tool is constructed
// and registered here, and the caller owns serving the returned instance.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// New builds the MCP server with all tools registered.
func New(version string) *server.MCPServer {
	s := server.NewMCPServer(
		"srep",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	find := NewFindTool()
	s.AddTool(find.Definition(), find.Handle)

	rewriteSource := NewRewriteTool()
	s.AddTool(rewriteSource.Definition(), rewriteSource.Handle)

	rewriteFile := NewRewriteFileTool()
	s.AddTool(rewriteFile.Definition(), rewriteFile.Handle)

	return s
}
