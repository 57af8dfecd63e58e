// ABOUTME: MCP server subcommand
// ABOUTME: Serves duplicate scan and merge tools over stdio
package cli

import (
	"context"
	"database/sql"

	"github.com/harperreed/cleancontacts/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			a.logger.Info("starting MCP server", "db", a.cfg.DBPath)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			server := handlers.NewServer(database, cmd.Root().Version)
			return server.Run(ctx, &mcp.StdioTransport{})
		}),
	}
}
