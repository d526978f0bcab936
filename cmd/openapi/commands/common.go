package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jirutka/openapi-cli/config"
	"github.com/jirutka/openapi-cli/internal/cliutil"
	"github.com/jirutka/openapi-cli/internal/presenter"
	"github.com/jirutka/openapi-cli/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// loadConfig reads the file given by --config, or the one discovered from
// the working directory.
func (a *App) loadConfig() (*config.Config, error) {
	if a.ConfigPath != "" {
		return config.Load(a.ConfigPath)
	}
	cfg, err := config.Discover(".")
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		a.logger().Debug("using configuration file", "path", cfg.Path)
	}
	return cfg, nil
}

// runSetup is what lint and bundle share: configuration, entries and the
// presenter for their findings.
type runSetup struct {
	cfg       *config.Config
	entries   []string
	presenter *presenter.Presenter
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
}

func (a *App) setup(args []string, w io.Writer, format string, maxMessages int) (*runSetup, error) {
	f, err := presenter.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	entries, err := cfg.Entries(args)
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	s := &runSetup{
		cfg:       cfg,
		entries:   entries,
		presenter: presenter.New(w, f, presenter.WithMaxCount(maxMessages), presenter.WithBaseDir(cwd)),
		metrics:   metrics.New(),
		registry:  prometheus.NewRegistry(),
	}
	s.metrics.MustRegister(s.registry)
	return s, nil
}

// writeMetrics writes the collected metrics if path is set.
func (s *runSetup) writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := metrics.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}

// reportEntryError prints an entry that could not be processed at all.
func reportEntryError(w io.Writer, entry string, err error) {
	cliutil.Writef(w, "%s %s: %v\n", color.New(color.FgRed, color.Bold).Sprint("✗"), entry, err)
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}
	return RejectSymlinkOutput(filepath.Clean(outputPath))
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}
