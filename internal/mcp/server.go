package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/wgsldoc/internal/storage"
)

const (
	// ServerName is the name advertised to MCP clients
	ServerName = "wgsldoc"
	// ServerVersion is the version advertised to MCP clients
	ServerVersion = "0.1.0"
)

// ReloadFunc re-reads the shader directory and returns the freshly registered document
type ReloadFunc func(ctx context.Context) (storage.Source, error)

// Options configures a Server
type Options struct {
	// Document is the stored document every tool queries
	Document string
	// Reload backs the reload tool. The tool reports an error when nil.
	Reload ReloadFunc
	Logger *slog.Logger
}

// Server wraps the MCP server with the symbol index
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	document string
	reload   ReloadFunc
	logger   *slog.Logger
}

// NewServer creates an MCP server over an opened storage. The caller keeps ownership of store.
func NewServer(store storage.Storage, opts Options) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("storage is required")
	}
	if opts.Document == "" {
		return nil, fmt.Errorf("document name is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion, server.WithToolCapabilities(false)),
		storage:  store,
		document: opts.Document,
		reload:   opts.Reload,
		logger:   logger,
	}
	s.registerTools()
	return s, nil
}

// Serve starts the MCP server on stdio and blocks until ctx is done or stdin closes
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("mcp server started", "document", s.document)
	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listModulesTool(), s.handleListModules)
	s.mcp.AddTool(getModuleTool(), s.handleGetModule)
	s.mcp.AddTool(getSymbolTool(), s.handleGetSymbol)
	s.mcp.AddTool(searchSymbolsTool(), s.handleSearchSymbols)
	s.mcp.AddTool(findUnresolvedTool(), s.handleFindUnresolved)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	s.mcp.AddTool(reloadTool(), s.handleReload)
}
