// Package mcp exposes the converter over the Model Context Protocol so
// editor agents can convert module source without shelling out.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"amdify/pkg/mcplog"
	"amdify/pkg/transformer"
)

const serverVersion = "0.1.0"

// Server wires the transformer into an MCP server over stdio.
type Server struct {
	mcpServer   *server.MCPServer
	transformer *transformer.Transformer
	log         *mcplog.Logger // nil disables call logging
}

// NewServer creates an MCP server backed by t. log may be nil.
func NewServer(t *transformer.Transformer, log *mcplog.Logger) *Server {
	s := &Server{transformer: t, log: log}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if log != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("amdify", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: convertSourceTool(), Handler: s.handleConvertSource},
		server.ServerTool{Tool: convertFileTool(), Handler: s.handleConvertFile},
		server.ServerTool{Tool: listDependenciesTool(), Handler: s.handleListDependencies},
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
