package bundler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jirutka/openapi-cli/internal/issues"
	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
	"github.com/jirutka/openapi-cli/rules"
	"github.com/jirutka/openapi-cli/walker"
	"go.yaml.in/yaml/v4"
)

// Mode selects how references are rewritten.
type Mode int

const (
	// ModeComponents keeps references local to the entry document and
	// relocates external targets into the component sections.
	ModeComponents Mode = iota
	// ModeInline replaces every reference with a copy of its target, except
	// references that are part of a cycle.
	ModeInline
)

// IsValid returns true if the mode is one of the defined constants.
func (m Mode) IsValid() bool {
	return m == ModeComponents || m == ModeInline
}

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeComponents:
		return "components"
	case ModeInline:
		return "inline"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses "components" or "inline".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "components":
		return ModeComponents, nil
	case "inline":
		return ModeInline, nil
	}
	return 0, fmt.Errorf("bundler: unknown mode %q", s)
}

// CollisionRule is the rule name of findings for targets that could not be
// given a component slot.
const CollisionRule = "bundle-collision"

// UnresolvedMarkerKey is set, together with the original $ref, on nodes
// that replace references which could not be resolved.
const UnresolvedMarkerKey = "x-unresolved-ref"

// Relocation records an external target copied into a component slot.
type Relocation struct {
	// Section is the component section, e.g. "schemas" or "definitions"
	Section string `json:"section"`
	// Name is the slot name within the section
	Name string `json:"name"`
	// Ref is the internal reference to the slot
	Ref string `json:"ref"`
	// Source is the location the content was copied from
	Source string `json:"source"`
}

// BundleResult contains the result of bundling one entry document.
type BundleResult struct {
	// Entry is the canonical locator of the entry document
	Entry string
	// Version is the "openapi" or "swagger" value of the entry document
	Version string
	// Document is the bundled root mapping node
	Document *yaml.Node
	// Format is the source format of the entry document
	Format parser.SourceFormat
	// Mode is the mode the document was bundled in
	Mode Mode
	// Findings lists unresolved references and slot collisions
	Findings []issues.Issue
	// ErrorCount is the number of error findings
	ErrorCount int
	// WarningCount is the number of warning findings
	WarningCount int
	// Relocations lists the external targets copied into component slots,
	// in the order the slots were assigned
	Relocations []Relocation
	// Documents lists the locators of all documents loaded, in load order
	Documents []string
	// Duration is the wall time of the whole run
	Duration time.Duration
}

// Observer is notified after every bundled entry. The metrics package
// provides an implementation.
type Observer interface {
	ObserveBundle(result *BundleResult)
}

// Bundler produces self-contained documents. It is safe for concurrent use;
// each entry gets its own resolver and state.
type Bundler struct {
	mode      Mode
	loader    resolver.DocumentLoader
	logger    parser.Logger
	maxRename int
	maxDepth  int
	observer  Observer
}

// New creates a Bundler.
func New(opts ...Option) (*Bundler, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("bundler: invalid options: %w", err)
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
	return &Bundler{
		mode:      cfg.mode,
		loader:    loader,
		logger:    logger,
		maxRename: cfg.maxRename,
		maxDepth:  cfg.maxDepth,
		observer:  cfg.observer,
	}, nil
}

// Mode returns the configured mode.
func (b *Bundler) Mode() Mode {
	return b.mode
}

// Bundle loads entry and everything it references and returns a single
// document. Failing to load the entry document itself is returned as an
// error; unresolved references and collisions are findings.
func (b *Bundler) Bundle(ctx context.Context, entry string) (*BundleResult, error) {
	start := time.Now()
	res := resolver.New(b.loader, resolver.WithLogger(b.logger))
	root, err := res.Root(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("bundler: %w", err)
	}

	r := newRun(b, res, root.Document)
	w := walker.New(res, walker.Merge(r.recorder()),
		walker.WithLogger(b.logger),
		walker.WithMaxDepth(b.maxDepth),
	)
	if err := w.Walk(ctx, root); err != nil {
		return nil, fmt.Errorf("bundler: %w", err)
	}
	b.logger.Debug("bundle references recorded", "entry", root.Document.Locator, "refs", len(r.refs))

	out := r.emitDocument()

	result := &BundleResult{
		Entry:       root.Document.Locator,
		Version:     root.Document.Version(),
		Document:    out,
		Format:      root.Document.Format,
		Mode:        b.mode,
		Findings:    r.findings,
		Relocations: r.relocations,
	}
	for _, doc := range res.Documents() {
		result.Documents = append(result.Documents, doc.Locator)
	}
	result.ErrorCount, result.WarningCount = issues.Count(r.findings)
	result.Duration = time.Since(start)

	b.logger.Debug("bundle finished",
		"entry", result.Entry,
		"mode", b.mode.String(),
		"relocations", len(result.Relocations),
		"findings", len(result.Findings),
		"duration", result.Duration,
	)
	if b.observer != nil {
		b.observer.ObserveBundle(result)
	}
	return result, nil
}

// refRecord is what the first pass learned about one reference node.
type refRecord struct {
	ref      string
	node     *yaml.Node
	typ      walker.NodeType
	resolved *resolver.Resolved
	err      error
}

type slot struct {
	section string
	name    string
}

type pending struct {
	slot
	target *resolver.Resolved
}

// run holds the state of bundling one entry.
type run struct {
	mode      Mode
	maxRename int
	resolver  *resolver.Resolver
	entry     *parser.Document
	oas2      bool
	pathItems bool

	refs     map[parser.Location]*refRecord
	cyclic   map[parser.Location]bool
	slotOf   map[parser.Location]slot
	taken    map[string]map[string]bool
	inlineAt map[parser.Location]bool
	emitting map[parser.Location]int

	queue       []pending
	relocations []Relocation
	findings    []issues.Issue
	seen        map[string]struct{}
}

func newRun(b *Bundler, res *resolver.Resolver, entry *parser.Document) *run {
	return &run{
		mode:      b.mode,
		maxRename: b.maxRename,
		resolver:  res,
		entry:     entry,
		oas2:      entry.IsOAS2(),
		pathItems: hasPathItemComponents(entry.Version()),
		refs:      make(map[parser.Location]*refRecord),
		cyclic:    make(map[parser.Location]bool),
		slotOf:    make(map[parser.Location]slot),
		taken:     make(map[string]map[string]bool),
		inlineAt:  make(map[parser.Location]bool),
		emitting:  make(map[parser.Location]int),
		seen:      make(map[string]struct{}),
	}
}

// hasPathItemComponents reports whether version 3.1 or later is declared,
// which added components/pathItems.
func hasPathItemComponents(version string) bool {
	major, rest, ok := strings.Cut(version, ".")
	if !ok || major != "3" {
		return false
	}
	minor, _, _ := strings.Cut(rest, ".")
	n, err := strconv.Atoi(minor)
	return err == nil && n >= 1
}

// recorder is the first-pass visitor. It records every typed reference by
// the location of the reference node and reports the unresolved ones.
func (r *run) recorder() *walker.Visitor {
	return walker.NewVisitor("bundler").OnRef(func(wc *walker.WalkContext, ref *walker.RefInfo) walker.Action {
		if _, ok := r.refs[ref.Location]; !ok {
			r.refs[ref.Location] = &refRecord{
				ref:      ref.Ref,
				node:     ref.Node,
				typ:      ref.Type,
				resolved: ref.Resolved,
				err:      ref.Err,
			}
		}
		if ref.Cyclic {
			r.cyclic[ref.Resolved.Location] = true
		}
		if ref.Err != nil {
			r.reportRefError(wc, ref)
		}
		return walker.Continue
	})
}

func (r *run) reportRefError(wc *walker.WalkContext, ref *walker.RefInfo) {
	msg, at, ok := rules.RefErrorMessage(ref.Ref, ref.Err)
	issue := issues.Issue{
		Rule:     linter.UnresolvedRefsRule,
		Severity: severity.SeverityError,
		Message:  msg,
		File:     ref.Location.Source,
		Path:     ref.Location.Pointer,
		Line:     ref.Node.Line,
		Column:   ref.Node.Column,
	}
	if ok {
		issue.File, issue.Path, issue.Line, issue.Column = at.Source, at.Pointer, 0, 0
		if doc, err := r.resolver.Document(wc.Context(), at.Source); err == nil {
			if n, err := doc.Lookup(at.Tokens()); err == nil {
				issue.Line, issue.Column = n.Line, n.Column
			}
		}
	} else if wc.From != nil && *wc.From != ref.Location {
		issue.From = wc.From.String()
	}
	r.add(issue)
}

func (r *run) add(issue issues.Issue) {
	key := issue.Key()
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.findings = append(r.findings, issue)
}
