package commands

import (
	"runtime"

	openapicli "github.com/jirutka/openapi-cli"
	"github.com/jirutka/openapi-cli/internal/presenter"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/rules"
	"github.com/spf13/cobra"
)

// LintFlags contains flags for the lint command
type LintFlags struct {
	Format      string
	MaxMessages int
	Concurrency int
	MetricsFile string
}

// NewLintCommand creates the lint command.
func NewLintCommand(app *App) *cobra.Command {
	flags := &LintFlags{}
	cmd := &cobra.Command{
		Use:   "lint [entrypoints...]",
		Short: "Check OpenAPI descriptions against the configured rules",
		Long: "Lint follows every $ref from the given entry documents and reports rule\n" +
			"violations. Arguments may be file paths, URLs or API aliases from the\n" +
			"configuration file; without arguments every configured API is linted.",
		Example: "  openapi lint openapi.yaml\n" +
			"  openapi lint --format json https://example.com/openapi.json\n" +
			"  openapi lint --config .redocly.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, app, flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", string(presenter.FormatShort), "Output format: short, detailed or json")
	cmd.Flags().IntVar(&flags.MaxMessages, "max-messages", presenter.DefaultMaxCount, "Maximum number of problems printed per entry (0 for unlimited)")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", runtime.NumCPU(), "Number of entries linted in parallel")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	return cmd
}

func runLint(cmd *cobra.Command, app *App, flags *LintFlags, args []string) error {
	s, err := app.setup(args, cmd.OutOrStdout(), flags.Format, flags.MaxMessages)
	if err != nil {
		return err
	}

	l, err := linter.New(rules.Registry(), s.cfg.Rules,
		linter.WithLogger(app.logger()),
		linter.WithObserver(s.metrics),
		linter.WithLoaderOptions(
			parser.WithLogger(app.logger()),
			parser.WithObserver(s.metrics),
			parser.WithCache(parser.NewCache()),
			parser.WithUserAgent(openapicli.UserAgent()),
		),
	)
	if err != nil {
		return err
	}
	app.logger().Debug("linting", "entries", len(s.entries), "rules", len(l.Rules()))

	failed := false
	for _, er := range l.LintEach(cmd.Context(), s.entries, flags.Concurrency) {
		if er.Err != nil {
			reportEntryError(cmd.ErrOrStderr(), er.Entry, er.Err)
			failed = true
			continue
		}
		res := er.Result
		if err := s.presenter.Present(presenter.Report{
			Entry:     res.Entry,
			Version:   res.Version,
			Findings:  res.Findings,
			Truncated: res.Truncated,
			Duration:  res.Duration,
		}); err != nil {
			return err
		}
		if !res.Valid {
			failed = true
		}
	}

	if err := s.writeMetrics(flags.MetricsFile); err != nil {
		return err
	}
	if failed {
		return errProblems
	}
	return nil
}
