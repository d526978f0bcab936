package linter

import (
	"context"
	"fmt"
	"time"

	"github.com/jirutka/openapi-cli/internal/issues"
	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
	"github.com/jirutka/openapi-cli/walker"
	"golang.org/x/sync/errgroup"
)

// Severity is the configured severity of a rule and its findings
type Severity = severity.Severity

const (
	// SeverityError marks findings that fail the run
	SeverityError = severity.SeverityError
	// SeverityWarning marks findings that are reported but do not fail the run
	SeverityWarning = severity.SeverityWarning
	// SeverityOff disables a rule
	SeverityOff = severity.SeverityOff
)

// Finding represents a single rule violation
type Finding = issues.Issue

// LintResult contains the results of linting one entry document
type LintResult struct {
	// Entry is the canonical locator of the entry document
	Entry string
	// Version is the "openapi" or "swagger" value of the entry document
	Version string
	// Findings lists the findings in traversal order
	Findings []Finding
	// ErrorCount is the number of error findings
	ErrorCount int
	// WarningCount is the number of warning findings
	WarningCount int
	// Valid is true if no error findings were reported
	Valid bool
	// Truncated is true if the walk stopped at the findings limit
	Truncated bool
	// Documents lists the locators of all documents loaded, in load order
	Documents []string
	// LoadTime is the total time spent loading documents
	LoadTime time.Duration
	// Duration is the wall time of the whole run
	Duration time.Duration
}

// Observer is notified after every linted entry. The metrics package
// provides an implementation.
type Observer interface {
	ObserveLint(result *LintResult)
}

// Linter runs a fixed set of rules over entry documents. It is safe for
// concurrent use; each entry gets its own resolver and rule instances.
type Linter struct {
	rules       []activeRule
	loader      resolver.DocumentLoader
	logger      parser.Logger
	maxFindings int
	maxDepth    int
	observer    Observer
}

// New validates the rule settings against reg and creates a Linter.
// Configuration errors are *oaserrors.ConfigError and are returned before
// any document is loaded.
func New(reg *Registry, settings []Setting, opts ...Option) (*Linter, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("linter: invalid options: %w", err)
	}
	rules, err := effectiveRules(reg, settings)
	if err != nil {
		return nil, err
	}

	logger := parser.LoggerOrNop(cfg.logger)
	loader := cfg.loader
	if loader == nil {
		l, err := parser.NewLoader(append([]parser.Option{parser.WithLogger(logger)}, cfg.loaderOpts...)...)
		if err != nil {
			return nil, err
		}
		loader = l
	}

	return &Linter{
		rules:       rules,
		loader:      loader,
		logger:      logger,
		maxFindings: cfg.maxFindings,
		maxDepth:    cfg.maxDepth,
		observer:    cfg.observer,
	}, nil
}

// Rules returns the names of the enabled rules in execution order.
func (l *Linter) Rules() []string {
	names := make([]string, len(l.rules))
	for i, r := range l.rules {
		names[i] = r.rule.Name
	}
	return names
}

// Lint loads entry, walks it with all enabled rules and collects their
// findings. Failing to load the entry document itself is returned as an
// error; every other problem is a finding.
func (l *Linter) Lint(ctx context.Context, entry string) (*LintResult, error) {
	start := time.Now()
	res := resolver.New(l.loader, resolver.WithLogger(l.logger))
	root, err := res.Root(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("linter: %w", err)
	}

	r := &run{resolver: res, max: l.maxFindings, seen: make(map[string]struct{})}
	visitors := make([]*walker.Visitor, 0, len(l.rules))
	for _, ar := range l.rules {
		visitors = append(visitors, r.visitor(ar))
	}

	w := walker.New(res, walker.Merge(visitors...),
		walker.WithLogger(l.logger),
		walker.WithMaxDepth(l.maxDepth),
		walker.WithStopFunc(r.full),
	)
	if err := w.Walk(ctx, root); err != nil {
		return nil, fmt.Errorf("linter: %w", err)
	}

	result := &LintResult{
		Entry:     root.Document.Locator,
		Version:   root.Document.Version(),
		Findings:  r.findings,
		Truncated: r.truncated,
	}
	for _, doc := range res.Documents() {
		result.Documents = append(result.Documents, doc.Locator)
		result.LoadTime += doc.LoadTime
	}
	result.ErrorCount, result.WarningCount = issues.Count(r.findings)
	result.Valid = result.ErrorCount == 0
	result.Duration = time.Since(start)

	l.logger.Debug("lint finished",
		"entry", result.Entry,
		"errors", result.ErrorCount,
		"warnings", result.WarningCount,
		"documents", len(result.Documents),
		"duration", result.Duration,
	)
	if l.observer != nil {
		l.observer.ObserveLint(result)
	}
	return result, nil
}

// EntryResult pairs an entry with its lint result or error.
type EntryResult struct {
	Entry  string
	Result *LintResult
	Err    error
}

// LintEach lints entries concurrently, at most concurrency at a time (no
// limit if concurrency <= 0). Results are in the order of entries; a failing
// entry does not affect the others.
func (l *Linter) LintEach(ctx context.Context, entries []string, concurrency int) []EntryResult {
	out := make([]EntryResult, len(entries))
	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, entry := range entries {
		g.Go(func() error {
			res, err := l.Lint(ctx, entry)
			out[i] = EntryResult{Entry: entry, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// run holds the state of linting one entry.
type run struct {
	resolver  *resolver.Resolver
	max       int
	findings  []Finding
	seen      map[string]struct{}
	truncated bool
}

func (r *run) full() bool {
	return r.max > 0 && len(r.findings) >= r.max
}

func (r *run) add(f Finding) {
	key := f.Key()
	if _, dup := r.seen[key]; dup {
		return
	}
	if r.full() {
		r.truncated = true
		return
	}
	r.seen[key] = struct{}{}
	r.findings = append(r.findings, f)
	if r.full() {
		r.truncated = true
	}
}

// visitor adapts a fresh rule instance to the walker, binding a reporter to
// every callback.
func (r *run) visitor(ar activeRule) *walker.Visitor {
	rv := ar.rule.New()
	v := walker.NewVisitor(ar.rule.Name)
	bind := func(wc *walker.WalkContext) Reporter {
		return &reporter{run: r, rule: ar.rule.Name, severity: ar.severity, wc: wc}
	}
	for t, fn := range rv.Enter {
		v.Enter[t] = func(wc *walker.WalkContext) walker.Action { return fn(wc, bind(wc)) }
	}
	for t, fn := range rv.Leave {
		v.Leave[t] = func(wc *walker.WalkContext) walker.Action { return fn(wc, bind(wc)) }
	}
	if rv.Ref != nil {
		v.Ref = func(wc *walker.WalkContext, ref *walker.RefInfo) walker.Action {
			return rv.Ref(wc, ref, bind(wc))
		}
	}
	return v
}
