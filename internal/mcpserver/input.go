package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jirutka/openapi-cli/internal/httputil"
	"github.com/jirutka/openapi-cli/parser"
)

// inlineLocator is the locator given to inline content. Relative
// references in inline content resolve under mem://inline/ and fail to load.
const inlineLocator = "mem://inline/openapi.yaml"

// specInput represents the three ways an OAS document can be provided to a
// tool. Exactly one of File, URL, or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to the entry OAS document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch the entry OAS document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline OAS document content (JSON or YAML)"`
}

// source is a resolved specInput: the entry locator and the loader options
// that apply to it and to everything it references.
type source struct {
	entry      string
	loaderOpts []parser.Option
}

// cacheEntry holds the documents loaded for one input with LRU ordering and
// TTL expiry.
type cacheEntry struct {
	docs      *parser.Cache
	insertAt  time.Time
	expiresAt time.Time
}

// specCacheStore provides a session-scoped cache of loaded documents.
// File inputs are keyed by (absolutePath, modTime). Content inputs are keyed
// by a SHA-256 hash. URL inputs are keyed by URL string.
// Entries have per-type TTLs and a background sweeper removes expired entries.
type specCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var specCache = &specCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached document set or nil. Expired entries are lazily removed.
func (c *specCacheStore) get(key string) *parser.Cache {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.docs
	}
	return nil
}

// putWithTTL stores a document set with a specific TTL, evicting the oldest
// entry if at capacity.
func (c *specCacheStore) putWithTTL(key string, docs *parser.Cache, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{docs: docs, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *specCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Only the first call spawns a sweeper; it stops when ctx
// is cancelled.
func (c *specCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *specCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *specCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given input, or "" if the input
// should not be cached.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	case s.URL != "":
		return "url:" + s.URL
	default:
		return ""
	}
}

// count returns the number of input sources set.
func (s specInput) count() int {
	n := 0
	for _, set := range []bool{s.File != "", s.URL != "", s.Content != ""} {
		if set {
			n++
		}
	}
	return n
}

// resolve validates the input and returns its entry locator with the loader
// options to use. Local files may only reference files in their own
// directory tree; URLs are fetched with a client that refuses private
// addresses unless OPENAPI_ALLOW_PRIVATE_IPS is set.
func (s specInput) resolve() (*source, error) {
	switch n := s.count(); {
	case n == 0:
		return nil, errors.New("exactly one of file, url, or content must be provided (got none)")
	case n > 1:
		return nil, errors.New("exactly one of file, url, or content must be provided (got several)")
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OPENAPI_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	httpFetcher := parser.HTTPFetcher{}
	if !cfg.AllowPrivateIPs {
		httpFetcher.Client = httputil.NewGuardedClient(parser.DefaultHTTPTimeout)
	}
	var remote parser.Fetcher
	if cfg.AllowRemote {
		remote = httpFetcher
	}

	src := &source{}
	var fetcher parser.MultiFetcher
	switch {
	case s.File != "":
		abs, err := filepath.Abs(s.File)
		if err != nil {
			return nil, fmt.Errorf("invalid file path: %w", err)
		}
		src.entry = abs
		fetcher = parser.MultiFetcher{File: parser.FileFetcher{}, HTTP: remote}
		src.loaderOpts = append(src.loaderOpts, parser.WithBaseDir(filepath.Dir(abs)))
	case s.URL != "":
		if !parser.IsURL(s.URL) {
			return nil, fmt.Errorf("url must use http or https: %q", s.URL)
		}
		src.entry = s.URL
		fetcher = parser.MultiFetcher{HTTP: httpFetcher}
	default:
		src.entry = inlineLocator
		fetcher = parser.MultiFetcher{Memory: parser.MapFetcher{inlineLocator: s.Content}, HTTP: remote}
	}
	src.loaderOpts = append(src.loaderOpts, parser.WithFetcher(fetcher))

	if cfg.CacheEnabled {
		if key := makeCacheKey(s); key != "" {
			docs := specCache.get(key)
			if docs == nil {
				docs = parser.NewCache()
				specCache.putWithTTL(key, docs, s.ttl())
			}
			src.loaderOpts = append(src.loaderOpts, parser.WithCache(docs))
		}
	}
	return src, nil
}

func (s specInput) ttl() time.Duration {
	switch {
	case s.File != "":
		return cfg.CacheFileTTL
	case s.URL != "":
		return cfg.CacheURLTTL
	default:
		return cfg.CacheContentTTL
	}
}
