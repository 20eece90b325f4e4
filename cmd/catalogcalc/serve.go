package main

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"catalogcalc/internal/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.close(ctx)

	var server *mcp.Server
	if a.cfg.Database.DSN == "" {
		a.logger.Info("no database configured, catalog tools are disabled")
		server = mcp.NewServer(nil, version, a.logger)
	} else {
		db, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		server = mcp.NewServer(db, version, a.logger)
	}
	return server.Run(ctx, &sdk.StdioTransport{})
}
