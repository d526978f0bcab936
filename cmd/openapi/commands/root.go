// Package commands implements the openapi CLI commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	openapicli "github.com/jirutka/openapi-cli"
	"github.com/jirutka/openapi-cli/internal/cliutil"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/spf13/cobra"
)

// ExitError carries a non-zero exit code without a message. Commands return
// it when the run completed but found problems.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

var errProblems = &ExitError{Code: 1}

// App holds the state shared by all subcommands.
type App struct {
	ConfigPath string
	LogLevel   string
	Logger     *slog.Logger
}

// logger returns the application logger as a parser.Logger.
func (a *App) logger() parser.Logger {
	if a.Logger == nil {
		return parser.NopLogger{}
	}
	return parser.NewSlogAdapter(a.Logger)
}

// NewRootCommand creates the root openapi command with all subcommands
// registered.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Lint and bundle OpenAPI descriptions",
		Long: "openapi lints and bundles OpenAPI 2.0 and 3.x descriptions split across\n" +
			"files and URLs. Every $ref is followed, and problems are reported with the\n" +
			"file, JSON pointer and line they were found at.",
		Version:       openapicli.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := ParseLogLevel(app.LogLevel)
			if err != nil {
				return err
			}
			app.Logger = NewLogger(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	logLevel := os.Getenv("OPENAPI_LOG")
	if logLevel == "" {
		logLevel = DefaultLogLevel
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("openapi {{.Version}}\n")
	cmd.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", "", "Path to the configuration file (default: .openapi.yaml or .redocly.yaml found upwards from the working directory)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", logLevel, "Log level: debug, info, warn, error or silent (env OPENAPI_LOG)")

	cmd.AddCommand(
		NewLintCommand(app),
		NewBundleCommand(app),
		NewMCPCommand(app),
		NewVersionCommand(),
	)
	setUsageTemplate(cmd)
	return cmd
}

func setUsageTemplate(cmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleHeading", color.New(color.FgBlue, color.Bold).SprintFunc())
	cmd.SetUsageTemplate(strings.NewReplacer(
		`Usage:`, `{{StyleHeading "Usage:"}}`,
		`Examples:`, `{{StyleHeading "Examples:"}}`,
		`Available Commands:`, `{{StyleHeading "Available Commands:"}}`,
		`Flags:`, `{{StyleHeading "Options:"}}`,
		`Global Flags:`, `{{StyleHeading "Global Options:"}}`,
	).Replace(cmd.UsageTemplate()))
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color.NoColor = true
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(&App{})
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		cliutil.Writef(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		return 1
	}
	return 0
}
