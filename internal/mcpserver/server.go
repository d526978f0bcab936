// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes the linter and the bundler as MCP tools over stdio.
package mcpserver

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	openapicli "github.com/jirutka/openapi-cli"
	"github.com/jirutka/openapi-cli/internal/issues"
	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `openapi MCP server: lints and bundles OpenAPI documents split across files and URLs.

Configuration: All defaults are configurable via OPENAPI_* environment variables set in your MCP client config.

Key settings:
- OPENAPI_CONFIG: configuration file whose rule settings apply to every lint call
- OPENAPI_BUNDLE_MODE (default: components): default bundle mode, components or inline
- OPENAPI_ALLOW_REMOTE (default: true): let file and inline inputs follow http(s) references
- OPENAPI_ALLOW_PRIVATE_IPS (default: false): allow fetching from private and loopback addresses
- OPENAPI_CACHE_FILE_TTL (default: 15m): cache TTL for documents loaded for a file input
- OPENAPI_CACHE_URL_TTL (default: 5m): cache TTL for documents loaded for a URL input
- OPENAPI_CACHE_ENABLED (default: true): disable document caching entirely
- OPENAPI_MCP_LIMIT (default: 100): default number of problems returned per call

File inputs may only reference files in the entry document's directory and below.

Caching: Loaded documents are cached per session. File inputs use path+mtime of the entry as key. URL inputs are cached with a shorter TTL. A background sweeper removes expired entries every 60s.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi", Version: openapicli.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lint",
		Description: "Lint an OpenAPI document (Swagger 2.0, OpenAPI 3.0 or 3.1) together with every file and URL it references. Returns problems with rule name, severity, source document, JSON pointer and line. Unresolvable and circular $ref chains are reported by the no-unresolved-refs rule. Use rules to override rule severities (error, warn, off), no_warnings to focus on errors, and offset/limit to paginate.",
	}, handleLint)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "bundle",
		Description: "Bundle an OpenAPI document and everything it references into one self-contained document. In components mode (default) external targets are moved to component sections and referenced internally; in inline mode references are replaced by their targets except where that would recurse. Returns the bundled document inline, or writes it to output. Problems such as unresolved references are listed; a bundle with problems is still produced.",
	}, handleBundle)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.Limit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.Limit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// problem is a finding as returned to MCP clients.
type problem struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Source   string `json:"source"`
	Pointer  string `json:"pointer"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	From     string `json:"from,omitempty"`
}

// toProblems converts findings, dropping warnings if noWarnings is set.
// Sources are shown relative to the entry document's directory.
func toProblems(entry string, findings []issues.Issue, noWarnings bool) []problem {
	out := makeSlice[problem](len(findings))
	for _, f := range findings {
		if noWarnings && f.Severity != severity.SeverityError {
			continue
		}
		p := problem{
			Rule:     f.Rule,
			Severity: f.Severity.String(),
			Message:  f.Message,
			Source:   displaySource(entry, f.File),
			Pointer:  "#" + f.Path,
			Line:     f.Line,
			Column:   f.Column,
		}
		if f.From != "" {
			p.From = f.From
			if from, ok := parser.ParseLocation(f.From); ok {
				p.From = displaySource(entry, from.Source) + "#" + from.Pointer
			}
		}
		out = append(out, p)
	}
	return out
}

func displaySource(entry, src string) string {
	if parser.IsURL(src) || strings.HasPrefix(src, "mem://") || !filepath.IsAbs(entry) {
		return src
	}
	rel, err := filepath.Rel(filepath.Dir(entry), src)
	if err != nil {
		return src
	}
	return filepath.ToSlash(rel)
}

// logger returns the logger passed down to the linter and the bundler.
func logger() parser.Logger {
	return parser.NewSlogAdapter(slog.Default()).With("component", "mcp")
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
