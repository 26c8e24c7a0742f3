package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/metaflux/metaflux/internal/logging"
	"github.com/metaflux/metaflux/internal/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve simulation tools over MCP (stdio)",
		Long: `serve starts a Model Context Protocol server on stdio exposing
run_simulation, list_pathways, get_snapshot, and explain_genetics tools.
Agent hosts connect to it as a tool provider.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd)
			if err != nil {
				return err
			}

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "metaflux",
				Version: version,
				Base:    cfg,
				Logger:  logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()),
			})
			if err != nil {
				return err
			}
			return server.Run(context.Background())
		},
	}
}
