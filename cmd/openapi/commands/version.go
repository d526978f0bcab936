package commands

import (
	openapicli "github.com/jirutka/openapi-cli"
	"github.com/jirutka/openapi-cli/internal/cliutil"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				cliutil.Writef(cmd.OutOrStdout(), "%s\n", openapicli.Version())
				return
			}
			cliutil.Writef(cmd.OutOrStdout(), "openapi %s\n%s\n", openapicli.Version(), openapicli.BuildInfo())
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version number")
	return cmd
}
