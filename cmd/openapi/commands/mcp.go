package commands

import (
	"log/slog"

	"github.com/jirutka/openapi-cli/internal/mcpserver"
	"github.com/spf13/cobra"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the lint and bundle tools over the Model Context Protocol",
		Long: "Start an MCP server on stdin/stdout. The server exposes the lint and bundle\n" +
			"tools; its defaults are read from OPENAPI_* environment variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.Logger != nil {
				slog.SetDefault(app.Logger)
			}
			return mcpserver.Run(cmd.Context())
		},
	}
}
