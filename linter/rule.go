package linter

import (
	"fmt"

	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/oaserrors"
	"github.com/jirutka/openapi-cli/walker"
)

// UnresolvedRefsRule is the name of the rule reporting references that
// cannot be resolved. It always runs first and cannot be turned off; "off"
// lowers it to a warning.
const UnresolvedRefsRule = "no-unresolved-refs"

// VisitFunc is a rule callback for a typed node.
type VisitFunc func(wc *walker.WalkContext, r Reporter) walker.Action

// RefFunc is a rule callback for a reference node.
type RefFunc func(wc *walker.WalkContext, ref *walker.RefInfo, r Reporter) walker.Action

// RuleVisitor holds the callbacks of one rule instance. A fresh instance is
// created for every entry document, so callbacks may keep per-document state
// in closures.
type RuleVisitor struct {
	Enter map[walker.NodeType]VisitFunc
	Leave map[walker.NodeType]VisitFunc
	Ref   RefFunc
}

// NewRuleVisitor creates an empty RuleVisitor.
func NewRuleVisitor() *RuleVisitor {
	return &RuleVisitor{
		Enter: make(map[walker.NodeType]VisitFunc),
		Leave: make(map[walker.NodeType]VisitFunc),
	}
}

// OnEnter registers fn for entering nodes of the given types.
func (v *RuleVisitor) OnEnter(fn VisitFunc, types ...walker.NodeType) *RuleVisitor {
	for _, t := range types {
		v.Enter[t] = fn
	}
	return v
}

// OnLeave registers fn for leaving nodes of the given types.
func (v *RuleVisitor) OnLeave(fn VisitFunc, types ...walker.NodeType) *RuleVisitor {
	for _, t := range types {
		v.Leave[t] = fn
	}
	return v
}

// OnRef registers fn for reference nodes.
func (v *RuleVisitor) OnRef(fn RefFunc) *RuleVisitor {
	v.Ref = fn
	return v
}

// Rule is a named check. Rules never choose the severity of their findings;
// it comes from configuration or DefaultSeverity.
type Rule struct {
	Name            string
	Description     string
	DefaultSeverity severity.Severity
	New             func() *RuleVisitor
}

// Registry is an ordered set of rules.
type Registry struct {
	rules  []*Rule
	byName map[string]*Rule
}

// NewRegistry creates a registry holding rules in the given order.
func NewRegistry(rules ...*Rule) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Rule, len(rules))}
	for _, r := range rules {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Register appends a rule. Names must be unique.
func (reg *Registry) Register(r *Rule) error {
	if r == nil || r.Name == "" || r.New == nil {
		return &oaserrors.ConfigError{Option: "rule", Message: "rule needs a name and a constructor"}
	}
	if _, dup := reg.byName[r.Name]; dup {
		return &oaserrors.ConfigError{Option: "rule", Value: r.Name, Message: "duplicate rule name"}
	}
	reg.rules = append(reg.rules, r)
	reg.byName[r.Name] = r
	return nil
}

// Get returns the rule with the given name.
func (reg *Registry) Get(name string) (*Rule, bool) {
	r, ok := reg.byName[name]
	return r, ok
}

// Rules returns the rules in registration order.
func (reg *Registry) Rules() []*Rule {
	return reg.rules
}

// Setting configures the severity of one rule. Severity is the raw
// configuration value ("error", "warn", "warning" or "off").
type Setting struct {
	Rule     string
	Severity string
}

type activeRule struct {
	rule     *Rule
	severity severity.Severity
}

// effectiveRules orders the enabled rules: the unresolved-refs rule first,
// then configured rules in configuration order, then the remaining rules
// whose default severity is not off, in registry order.
func effectiveRules(reg *Registry, settings []Setting) ([]activeRule, error) {
	configured := make(map[string]severity.Severity, len(settings))
	order := make([]string, 0, len(settings))
	for _, s := range settings {
		if _, ok := reg.Get(s.Rule); !ok {
			return nil, &oaserrors.ConfigError{Option: "rules", Value: s.Rule, Message: "unknown rule"}
		}
		sev, err := severity.Parse(s.Severity)
		if err != nil {
			return nil, &oaserrors.ConfigError{
				Option:  "rules",
				Value:   s.Severity,
				Message: fmt.Sprintf("invalid severity for rule %s", s.Rule),
				Cause:   err,
			}
		}
		if _, seen := configured[s.Rule]; !seen {
			order = append(order, s.Rule)
		}
		configured[s.Rule] = sev
	}

	var out []activeRule
	added := make(map[string]bool)
	add := func(r *Rule, sev severity.Severity) {
		added[r.Name] = true
		if sev.Enabled() {
			out = append(out, activeRule{rule: r, severity: sev})
		}
	}

	if r, ok := reg.Get(UnresolvedRefsRule); ok {
		sev, ok := configured[r.Name]
		if !ok {
			sev = r.DefaultSeverity
		}
		if !sev.Enabled() {
			sev = severity.SeverityWarning
		}
		add(r, sev)
	}
	for _, name := range order {
		if !added[name] {
			r, _ := reg.Get(name)
			add(r, configured[name])
		}
	}
	for _, r := range reg.Rules() {
		if !added[r.Name] {
			add(r, r.DefaultSeverity)
		}
	}
	return out, nil
}
