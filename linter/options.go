package linter

import (
	"fmt"

	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
)

// Option is a function that configures a Linter
type Option func(*lintConfig) error

// lintConfig holds configuration for a Linter
type lintConfig struct {
	loader      resolver.DocumentLoader
	loaderOpts  []parser.Option
	logger      parser.Logger
	maxFindings int
	maxDepth    int
	observer    Observer
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*lintConfig, error) {
	cfg := &lintConfig{}
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

// WithLoader sets the document loader. By default a parser.Loader is
// created from the options given to WithLoaderOptions.
func WithLoader(l resolver.DocumentLoader) Option {
	return func(cfg *lintConfig) error {
		if l == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		cfg.loader = l
		return nil
	}
}

// WithLoaderOptions configures the default loader (fetchers, cache, base
// directory, timeouts).
func WithLoaderOptions(opts ...parser.Option) Option {
	return func(cfg *lintConfig) error {
		cfg.loaderOpts = append(cfg.loaderOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger used by the linter, the resolver and the walker.
func WithLogger(l parser.Logger) Option {
	return func(cfg *lintConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxFindings stops each entry's walk once n findings were collected.
// Zero means unlimited.
// Default: 0
func WithMaxFindings(n int) Option {
	return func(cfg *lintConfig) error {
		if n < 0 {
			return fmt.Errorf("max findings cannot be negative: %d", n)
		}
		cfg.maxFindings = n
		return nil
	}
}

// WithMaxDepth overrides the walker's nesting limit.
func WithMaxDepth(n int) Option {
	return func(cfg *lintConfig) error {
		if n < 0 {
			return fmt.Errorf("max depth cannot be negative: %d", n)
		}
		cfg.maxDepth = n
		return nil
	}
}

// WithObserver registers an Observer notified after every entry.
func WithObserver(o Observer) Option {
	return func(cfg *lintConfig) error {
		cfg.observer = o
		return nil
	}
}
