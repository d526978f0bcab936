package bundler

import (
	"fmt"

	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
)

// DefaultMaxRenameAttempts is the default number of names tried for one
// component slot before giving up.
const DefaultMaxRenameAttempts = 100

// Option is a function that configures a Bundler
type Option func(*bundleConfig) error

// bundleConfig holds configuration for a Bundler
type bundleConfig struct {
	mode       Mode
	loader     resolver.DocumentLoader
	loaderOpts []parser.Option
	logger     parser.Logger
	maxRename  int
	maxDepth   int
	observer   Observer
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*bundleConfig, error) {
	cfg := &bundleConfig{
		mode:      ModeComponents,
		maxRename: DefaultMaxRenameAttempts,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.loader != nil && len(cfg.loaderOpts) > 0 {
		return nil, fmt.Errorf("WithLoader and WithLoaderOptions are mutually exclusive")
	}
	return cfg, nil
}

// WithMode sets how references are rewritten.
// Default: ModeComponents
func WithMode(m Mode) Option {
	return func(cfg *bundleConfig) error {
		if !m.IsValid() {
			return fmt.Errorf("invalid mode: %d", m)
		}
		cfg.mode = m
		return nil
	}
}

// WithLoader sets the document loader. By default a parser.Loader is
// created from the options given to WithLoaderOptions.
func WithLoader(l resolver.DocumentLoader) Option {
	return func(cfg *bundleConfig) error {
		if l == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		cfg.loader = l
		return nil
	}
}

// WithLoaderOptions configures the default loader.
func WithLoaderOptions(opts ...parser.Option) Option {
	return func(cfg *bundleConfig) error {
		cfg.loaderOpts = append(cfg.loaderOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger used by the bundler, the resolver and the walker.
func WithLogger(l parser.Logger) Option {
	return func(cfg *bundleConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxRenameAttempts sets how many suffixed names ("Name-2", "Name-3", ...)
// are tried for a contended component slot.
// Default: 100
func WithMaxRenameAttempts(n int) Option {
	return func(cfg *bundleConfig) error {
		if n < 1 {
			return fmt.Errorf("max rename attempts must be positive: %d", n)
		}
		cfg.maxRename = n
		return nil
	}
}

// WithMaxDepth overrides the walker's nesting limit.
func WithMaxDepth(n int) Option {
	return func(cfg *bundleConfig) error {
		if n < 0 {
			return fmt.Errorf("max depth cannot be negative: %d", n)
		}
		cfg.maxDepth = n
		return nil
	}
}

// WithObserver registers an Observer notified after every bundled entry.
func WithObserver(o Observer) Option {
	return func(cfg *bundleConfig) error {
		cfg.observer = o
		return nil
	}
}
