package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/hwp-tools/hwpctl/internal/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the operation registry to AI agents over MCP stdio",
		Long: `serve exposes every document operation as an MCP tool on stdio,
plus hwp_execute_batch for ordered multi-step requests. Logs go to
stderr; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			sess, err := newSession(cfg, logger)
			if err != nil {
				return err
			}
			return mcpserver.New(sess, version, mcpserver.WithLogger(logger)).Serve()
		},
	}
}
