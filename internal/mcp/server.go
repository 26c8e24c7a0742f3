// Package mcp provides an MCP (Model Context Protocol) server for metaflux.
package mcp

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/metaflux/metaflux/internal/config"
)

// Server wraps the MCP SDK server and exposes simulation tools.
type Server struct {
	server *sdk.Server
	base   *config.RunConfig
	logger *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "metaflux")
	Version string // Server version

	// Base is the run configuration tool calls start from; tool inputs
	// override individual fields per call.
	Base *config.RunConfig

	Logger *slog.Logger
}

// NewServer creates a new MCP server with metaflux tools.
func NewServer(cfg *Config) (*Server, error) {
	base := cfg.Base
	if base == nil {
		base = config.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server: mcpServer,
		base:   base,
		logger: logger,
	}

	s.registerTools()
	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return s.server.Run(ctx, &sdk.StdioTransport{})
}
