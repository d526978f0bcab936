package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	openapicli "github.com/jirutka/openapi-cli"
	"github.com/jirutka/openapi-cli/bundler"
	"github.com/jirutka/openapi-cli/internal/cliutil"
	"github.com/jirutka/openapi-cli/internal/naming"
	"github.com/jirutka/openapi-cli/internal/presenter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// BundleFlags contains flags for the bundle command
type BundleFlags struct {
	Output       string
	Ext          string
	Dereferenced bool
	Format       string
	MaxMessages  int
	Concurrency  int
	MetricsFile  string
}

// NewBundleCommand creates the bundle command.
func NewBundleCommand(app *App) *cobra.Command {
	flags := &BundleFlags{}
	cmd := &cobra.Command{
		Use:   "bundle [entrypoints...]",
		Short: "Bundle OpenAPI descriptions into single documents",
		Long: "Bundle copies every external $ref target into the components of the entry\n" +
			"document and rewrites the references to point there. With --dereferenced all\n" +
			"references are inlined instead. The result is written to stdout unless\n" +
			"--output is given; with several entries --output names a directory.",
		Example: "  openapi bundle openapi.yaml -o dist/openapi.json\n" +
			"  openapi bundle --dereferenced --ext json openapi.yaml\n" +
			"  openapi bundle public internal -o dist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd, app, flags, args)
		},
	}
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file, or directory when bundling several entries (default: stdout)")
	cmd.Flags().StringVar(&flags.Ext, "ext", "", "Output format: json, yaml or yml (default: from --output, else the entry's format)")
	cmd.Flags().BoolVar(&flags.Dereferenced, "dereferenced", false, "Inline every reference instead of moving targets into components")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", string(presenter.FormatShort), "Problem output format: short, detailed or json")
	cmd.Flags().IntVar(&flags.MaxMessages, "max-messages", presenter.DefaultMaxCount, "Maximum number of problems printed per entry (0 for unlimited)")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", runtime.NumCPU(), "Number of entries bundled in parallel")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	return cmd
}

type bundleOutcome struct {
	entry  string
	result *bundler.BundleResult
	err    error
}

func runBundle(cmd *cobra.Command, app *App, flags *BundleFlags, args []string) error {
	if flags.Ext != "" {
		if _, err := parser.ParseFormat(flags.Ext); err != nil {
			return fmt.Errorf("invalid --ext: %w", err)
		}
	}
	s, err := app.setup(args, cmd.ErrOrStderr(), flags.Format, flags.MaxMessages)
	if err != nil {
		return err
	}
	targets, err := outputTargets(flags.Output, flags.Ext, s.entries)
	if err != nil {
		return err
	}

	mode := bundler.ModeComponents
	if flags.Dereferenced {
		mode = bundler.ModeInline
	}
	b, err := bundler.New(
		bundler.WithMode(mode),
		bundler.WithLogger(app.logger()),
		bundler.WithObserver(s.metrics),
		bundler.WithLoaderOptions(
			parser.WithLogger(app.logger()),
			parser.WithObserver(s.metrics),
			parser.WithCache(parser.NewCache()),
			parser.WithUserAgent(openapicli.UserAgent()),
		),
	)
	if err != nil {
		return err
	}

	outcomes := bundleEach(cmd.Context(), b, s.entries, flags.Concurrency)
	failed := false
	printed := 0
	for i, o := range outcomes {
		if o.err != nil {
			reportEntryError(cmd.ErrOrStderr(), o.entry, o.err)
			failed = true
			continue
		}
		res := o.result
		if len(res.Findings) > 0 {
			if err := s.presenter.Present(presenter.Report{
				Entry:    res.Entry,
				Version:  res.Version,
				Findings: res.Findings,
				Duration: res.Duration,
			}); err != nil {
				return err
			}
			failed = true
		}

		format := res.Format
		if flags.Ext != "" {
			format, _ = parser.ParseFormat(flags.Ext)
		} else if targets != nil {
			if f, err := parser.ParseFormat(filepath.Ext(targets[i])); err == nil {
				format = f
			}
		}
		if format != parser.SourceFormatJSON {
			format = parser.SourceFormatYAML
		}
		data, err := parser.Marshal(res.Document, format)
		if err != nil {
			reportEntryError(cmd.ErrOrStderr(), o.entry, err)
			failed = true
			continue
		}

		if targets == nil {
			writeDocument(cmd.OutOrStdout(), data, format, printed)
			printed++
			continue
		}
		if err := writeBundle(targets[i], data); err != nil {
			reportEntryError(cmd.ErrOrStderr(), o.entry, err)
			failed = true
			continue
		}
		app.logger().Info("bundle written", "entry", o.entry, "output", targets[i], "mode", res.Mode.String())
		cliutil.Writef(cmd.ErrOrStderr(), "%s → %s (%s)\n", o.entry, targets[i], res.Duration.Round(time.Millisecond))
	}

	if err := s.writeMetrics(flags.MetricsFile); err != nil {
		return err
	}
	if failed {
		return errProblems
	}
	return nil
}

// bundleEach bundles entries concurrently and returns the outcomes in the
// order of entries.
func bundleEach(ctx context.Context, b *bundler.Bundler, entries []string, concurrency int) []bundleOutcome {
	out := make([]bundleOutcome, len(entries))
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, entry := range entries {
		g.Go(func() error {
			res, err := b.Bundle(ctx, entry)
			out[i] = bundleOutcome{entry: entry, result: res, err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// outputTargets returns the output file of every entry, or nil for stdout.
// A single entry writes to output itself; several entries write into output
// as a directory, named after the entry files.
func outputTargets(output, ext string, entries []string) ([]string, error) {
	if output == "" {
		return nil, nil
	}
	if len(entries) == 1 {
		if err := ValidateOutputPath(output, entries); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	if st, err := os.Stat(output); err == nil && !st.IsDir() {
		return nil, fmt.Errorf("--output %s must be a directory when bundling %d entries", output, len(entries))
	}
	used := make(map[string]bool, len(entries))
	targets := make([]string, len(entries))
	for i, entry := range entries {
		base, entryExt := entryBaseName(entry)
		if ext != "" {
			entryExt = strings.TrimPrefix(strings.ToLower(ext), ".")
		}
		name := base + "." + entryExt
		for n := 2; used[name]; n++ {
			name = naming.WithSuffix(base, n) + "." + entryExt
		}
		used[name] = true
		targets[i] = filepath.Join(output, name)
		if err := ValidateOutputPath(targets[i], entries); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

// entryBaseName splits the file name of an entry locator into its base and
// extension, defaulting the extension to yaml.
func entryBaseName(entry string) (string, string) {
	p := entry
	if parser.IsURL(entry) {
		if u, err := url.Parse(entry); err == nil {
			p = u.Path
		}
	}
	base := path.Base(filepath.ToSlash(p))
	ext := strings.TrimPrefix(path.Ext(base), ".")
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "openapi"
	}
	if _, err := parser.ParseFormat(ext); err != nil {
		ext = "yaml"
	}
	return base, strings.ToLower(ext)
}

// writeDocument writes a bundled document to stdout. YAML documents after
// the first are separated by "---".
func writeDocument(w io.Writer, data []byte, format parser.SourceFormat, n int) {
	if n > 0 && format == parser.SourceFormatYAML {
		cliutil.Writef(w, "---\n")
	}
	cliutil.Writef(w, "%s", data)
}

func writeBundle(target string, data []byte) error {
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
