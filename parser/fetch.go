package parser

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	openapicli "github.com/jirutka/openapi-cli"
)

const (
	// MaxFileSize is the maximum size (in bytes) of a fetched document.
	MaxFileSize = 10 * 1024 * 1024 // 10MB

	// DefaultHTTPTimeout bounds a single remote fetch.
	DefaultHTTPTimeout = 30 * time.Second
)

// Content is raw fetched document content.
type Content struct {
	Data        []byte
	ContentType string
}

// Fetcher retrieves raw content for a canonical locator. Fetchers must be
// safe for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*Content, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, locator string) (*Content, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, locator string) (*Content, error) {
	return f(ctx, locator)
}

// FileFetcher reads local files.
type FileFetcher struct {
	// MaxSize limits the file size; 0 means MaxFileSize
	MaxSize int64
}

// Fetch implements Fetcher.
func (f FileFetcher) Fetch(ctx context.Context, locator string) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := f.MaxSize
	if limit <= 0 {
		limit = MaxFileSize
	}
	info, err := os.Stat(locator)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", locator)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("file exceeds maximum size limit (%d bytes): file is %d bytes", limit, info.Size())
	}
	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, err
	}
	return &Content{Data: data}, nil
}

// HTTPFetcher fetches http:// and https:// locators without authentication.
type HTTPFetcher struct {
	// Client is the HTTP client; nil uses a client with Timeout
	Client *http.Client
	// Timeout bounds each request when Client is nil; 0 means DefaultHTTPTimeout
	Timeout time.Duration
	// UserAgent defaults to openapicli.UserAgent()
	UserAgent string
	// MaxSize limits the response size; 0 means MaxFileSize
	MaxSize int64
}

// Fetch implements Fetcher.
func (f HTTPFetcher) Fetch(ctx context.Context, locator string) (*Content, error) {
	client := f.Client
	if client == nil {
		timeout := f.Timeout
		if timeout <= 0 {
			timeout = DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	limit := f.MaxSize
	if limit <= 0 {
		limit = MaxFileSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = openapicli.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")

	resp, err := client.Do(req) //nolint:gosec // URL comes from the document being processed
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("response exceeds maximum size limit (%d bytes)", limit)
	}
	return &Content{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// MapFetcher serves documents from memory, keyed by canonical locator.
type MapFetcher map[string]string

// Fetch implements Fetcher.
func (m MapFetcher) Fetch(_ context.Context, locator string) (*Content, error) {
	s, ok := m[locator]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: locator, Err: fs.ErrNotExist}
	}
	return &Content{Data: []byte(s)}, nil
}

// MultiFetcher routes URLs to HTTP and everything else to File.
// A nil HTTP fetcher makes remote references fail to load.
type MultiFetcher struct {
	File Fetcher
	HTTP Fetcher
	// Memory, if set, is consulted first for every locator
	Memory MapFetcher
}

// Fetch implements Fetcher.
func (m MultiFetcher) Fetch(ctx context.Context, locator string) (*Content, error) {
	if m.Memory != nil {
		if _, ok := m.Memory[locator]; ok {
			return m.Memory.Fetch(ctx, locator)
		}
	}
	switch {
	case IsURL(locator):
		if m.HTTP == nil {
			return nil, fmt.Errorf("remote references are disabled: %s", locator)
		}
		return m.HTTP.Fetch(ctx, locator)
	case strings.HasPrefix(locator, "mem://"):
		return nil, &fs.PathError{Op: "open", Path: locator, Err: fs.ErrNotExist}
	}
	if m.File == nil {
		return nil, fmt.Errorf("file references are disabled: %s", locator)
	}
	return m.File.Fetch(ctx, locator)
}

// DefaultFetcher reads local files and fetches http(s) URLs.
func DefaultFetcher() Fetcher {
	return MultiFetcher{File: FileFetcher{}, HTTP: HTTPFetcher{}}
}
