package linter

import (
	"github.com/jirutka/openapi-cli/internal/issues"
	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/walker"
	"go.yaml.in/yaml/v4"
)

// Reporter is the sink a rule reports findings to. It is bound to the rule
// and to the node being visited; the engine stamps the rule name, the
// severity and the source location.
type Reporter interface {
	Report(message string, opts ...ReportOption)
}

// ReportOption adjusts where a finding is located.
type ReportOption func(*reportConfig)

type reportConfig struct {
	onKey bool
	node  *yaml.Node
	loc   *parser.Location
}

// OnKey locates the finding at the node's key instead of its value.
func OnKey() ReportOption {
	return func(c *reportConfig) {
		c.onKey = true
	}
}

// At locates the finding at node, which must belong to the document of the
// visited node.
func At(node *yaml.Node) ReportOption {
	return func(c *reportConfig) {
		c.node = node
	}
}

// AtLocation locates the finding at loc in any loaded document.
func AtLocation(loc parser.Location) ReportOption {
	return func(c *reportConfig) {
		c.loc = &loc
	}
}

type reporter struct {
	run      *run
	rule     string
	severity severity.Severity
	wc       *walker.WalkContext
}

func (r *reporter) Report(message string, opts ...ReportOption) {
	var cfg reportConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	wc := r.wc
	loc, node, keyNode := wc.Location, wc.Node, wc.KeyNode
	switch {
	case cfg.loc != nil:
		loc, node, keyNode = *cfg.loc, nil, nil
		if doc, err := r.run.resolver.Document(wc.Context(), loc.Source); err == nil {
			node, _ = doc.Lookup(loc.Tokens())
			if node != nil {
				keyNode = doc.KeyOf(node)
			}
		}
	case cfg.node != nil:
		node = cfg.node
		keyNode = wc.Document.KeyOf(node)
		if l, ok := wc.Document.LocationOf(node); ok {
			loc = l
		}
	case cfg.onKey:
		// The key lives in the mapping holding the slot, which differs from
		// the node's own document when the node was reached via a reference.
		loc = wc.Slot
	}

	issue := issues.Issue{
		Rule:     r.rule,
		Severity: r.severity,
		Message:  message,
		File:     loc.Source,
		Path:     loc.Pointer,
	}
	pos := node
	if cfg.onKey && keyNode != nil {
		issue.OnKey = true
		pos = keyNode
	}
	if pos != nil {
		issue.Line, issue.Column = pos.Line, pos.Column
	}
	if wc.From != nil && *wc.From != loc {
		issue.From = wc.From.String()
	}
	r.run.add(issue)
}
