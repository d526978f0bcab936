package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/jirutka/openapi-cli/internal/pathutil"
	"github.com/jirutka/openapi-cli/oaserrors"
)

// LoadObserver is notified after every fetch-and-parse attempt.
// The metrics package provides an implementation.
type LoadObserver interface {
	ObserveLoad(locator string, size int64, elapsed time.Duration, err error)
}

// Loader fetches and parses documents. It is stateless apart from an optional
// shared Cache and is safe for concurrent use.
type Loader struct {
	fetcher  Fetcher
	logger   Logger
	cache    *Cache
	baseDir  string
	observer LoadObserver
}

// Option configures a Loader.
type Option func(*loaderConfig) error

type loaderConfig struct {
	fetcher     Fetcher
	logger      Logger
	cache       *Cache
	baseDir     string
	observer    LoadObserver
	maxFileSize int64
	timeout     time.Duration
	userAgent   string
}

// WithFetcher replaces the default file and HTTP fetchers.
func WithFetcher(f Fetcher) Option {
	return func(cfg *loaderConfig) error {
		if f == nil {
			return fmt.Errorf("fetcher cannot be nil")
		}
		cfg.fetcher = f
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(cfg *loaderConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithCache shares loaded documents with other loaders.
func WithCache(c *Cache) Option {
	return func(cfg *loaderConfig) error {
		cfg.cache = c
		return nil
	}
}

// WithBaseDir restricts local documents to dir and its subdirectories.
func WithBaseDir(dir string) Option {
	return func(cfg *loaderConfig) error {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("invalid base directory: %w", err)
		}
		cfg.baseDir = abs
		return nil
	}
}

// WithObserver registers a LoadObserver.
func WithObserver(o LoadObserver) Option {
	return func(cfg *loaderConfig) error {
		cfg.observer = o
		return nil
	}
}

// WithMaxFileSize limits the size of fetched documents for the default fetchers.
func WithMaxFileSize(n int64) Option {
	return func(cfg *loaderConfig) error {
		if n < 0 {
			return fmt.Errorf("max file size cannot be negative: %d", n)
		}
		cfg.maxFileSize = n
		return nil
	}
}

// WithTimeout bounds each remote fetch of the default HTTP fetcher.
func WithTimeout(d time.Duration) Option {
	return func(cfg *loaderConfig) error {
		if d < 0 {
			return fmt.Errorf("timeout cannot be negative: %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent of the default HTTP fetcher.
func WithUserAgent(ua string) Option {
	return func(cfg *loaderConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) (*Loader, error) {
	cfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, &oaserrors.ConfigError{Option: "loader", Message: err.Error()}
		}
	}
	fetcher := cfg.fetcher
	if fetcher == nil {
		fetcher = MultiFetcher{
			File: FileFetcher{MaxSize: cfg.maxFileSize},
			HTTP: HTTPFetcher{Timeout: cfg.timeout, UserAgent: cfg.userAgent, MaxSize: cfg.maxFileSize},
		}
	}
	return &Loader{
		fetcher:  fetcher,
		logger:   LoggerOrNop(cfg.logger),
		cache:    cfg.cache,
		baseDir:  cfg.baseDir,
		observer: cfg.observer,
	}, nil
}

// Load fetches and parses the document at locator. The locator is
// canonicalized first; calling Load twice with equivalent locators returns
// equivalent documents. Fetch failures are *oaserrors.LoadError, malformed
// content is *oaserrors.ParseError.
func (l *Loader) Load(ctx context.Context, locator string) (*Document, error) {
	canon, err := Canonical(locator)
	if err != nil {
		return nil, &oaserrors.LoadError{Locator: locator, Cause: err}
	}
	if l.baseDir != "" && !IsURL(canon) && !pathutil.Within(l.baseDir, canon) {
		return nil, &oaserrors.LoadError{
			Locator: canon,
			Message: "outside of base directory " + l.baseDir,
			Cause:   oaserrors.ErrPathTraversal,
		}
	}
	if l.cache != nil {
		if d, ok := l.cache.Get(canon); ok {
			l.logger.Debug("document cache hit", "locator", canon)
			return d, nil
		}
	}

	start := time.Now()
	doc, err := l.load(ctx, canon)
	elapsed := time.Since(start)
	if l.observer != nil {
		var size int64
		if doc != nil {
			size = doc.Size
		}
		l.observer.ObserveLoad(canon, size, elapsed, err)
	}
	if err != nil {
		l.logger.Debug("document load failed", "locator", canon, "error", err)
		return nil, err
	}
	doc.LoadTime = elapsed
	l.logger.Debug("document loaded", "locator", canon, "format", doc.Format, "size", FormatBytes(doc.Size), "elapsed", elapsed)

	if l.cache != nil {
		doc = l.cache.Add(doc)
	}
	return doc, nil
}

func (l *Loader) load(ctx context.Context, canon string) (*Document, error) {
	content, err := l.fetcher.Fetch(ctx, canon)
	if err != nil {
		return nil, &oaserrors.LoadError{Locator: canon, Cause: err}
	}
	format := DetectFormat(canon, content.ContentType, content.Data)
	return ParseDocument(canon, content.Data, format)
}

var yamlLineRe = regexp.MustCompile(`line (\d+)(?:, column (\d+))?`)

func newParseError(locator string, err error) error {
	pe := &oaserrors.ParseError{Path: locator, Cause: err}
	if m := yamlLineRe.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			pe.Column, _ = strconv.Atoi(m[2])
		}
	}
	return pe
}

// IsLoadFailure reports whether err is a load or parse failure.
func IsLoadFailure(err error) bool {
	return errors.Is(err, oaserrors.ErrLoad) || errors.Is(err, oaserrors.ErrParse)
}
