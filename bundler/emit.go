package bundler

import (
	"errors"
	"strings"

	"github.com/jirutka/openapi-cli/internal/issues"
	"github.com/jirutka/openapi-cli/internal/naming"
	"github.com/jirutka/openapi-cli/internal/pathutil"
	"github.com/jirutka/openapi-cli/internal/severity"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/oaserrors"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
	"github.com/jirutka/openapi-cli/rules"
	"github.com/jirutka/openapi-cli/walker"
	"go.yaml.in/yaml/v4"
)

// emitDocument builds the output tree: the entry document with references
// rewritten, followed by the relocated component slots.
func (r *run) emitDocument() *yaml.Node {
	r.reserveEntryComponents()

	root := r.emit(r.entry.Root, parser.RootLocation(r.entry.Locator))
	// Emitting a relocated target may assign further slots.
	for i := 0; i < len(r.queue); i++ {
		p := r.queue[i]
		r.emitting[p.target.Location]++
		content := r.emit(p.target.Node, p.target.Location)
		r.emitting[p.target.Location]--
		parser.SetMapValue(r.sectionNode(root, p.section), p.name, content)
	}
	return root
}

// emit copies n, located at loc, applying the decisions for the reference
// nodes the first pass recorded. Reference-like mappings in opaque content
// (examples, extensions) were never recorded and are copied verbatim.
func (r *run) emit(n *yaml.Node, loc parser.Location) *yaml.Node {
	n = parser.Unalias(n)
	if n == nil {
		return nil
	}
	if rec, ok := r.refs[loc]; ok && n.Kind == yaml.MappingNode {
		return r.emitRef(n, loc, rec)
	}

	c := *n
	c.Anchor = ""
	c.Alias = nil
	if len(n.Content) == 0 {
		return &c
	}
	c.Content = make([]*yaml.Node, len(n.Content))
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			c.Content[i] = parser.DeepCopy(k)
			c.Content[i+1] = r.emit(n.Content[i+1], loc.Child(k.Value))
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			c.Content[i] = r.emit(item, loc.Index(i))
		}
	default:
		for i, item := range n.Content {
			c.Content[i] = parser.DeepCopy(item)
		}
	}
	return &c
}

func (r *run) emitRef(n *yaml.Node, loc parser.Location, rec *refRecord) *yaml.Node {
	if rec.err != nil {
		return unresolvedMarker(rec.ref, refErrorReason(rec.err))
	}
	t := rec.resolved

	if r.mode == ModeInline {
		if r.cyclic[t.Location] || r.emitting[t.Location] > 0 {
			return r.internalRef(n, loc, rec)
		}
		return r.inline(n, t)
	}

	if r.inlineAt[loc] && r.emitting[t.Location] == 0 {
		return r.inline(n, t)
	}
	if loc.Source == r.entry.Locator && strings.HasPrefix(rec.ref, "#") {
		return parser.DeepCopy(n)
	}
	return r.internalRef(n, loc, rec)
}

// internalRef points the reference at a location inside the output
// document: the target's own pointer when it lives in the entry document,
// otherwise a component slot. Targets without a component section are
// inlined unless that would recurse.
func (r *run) internalRef(n *yaml.Node, loc parser.Location, rec *refRecord) *yaml.Node {
	t := rec.resolved
	if t.Document.Locator == r.entry.Locator {
		return rewriteRef(n, "#"+t.Location.Pointer)
	}
	if s, ok := r.slotFor(rec, loc); ok {
		return rewriteRef(n, pathutil.ComponentRef(s.section, s.name, r.oas2))
	}
	if r.emitting[t.Location] == 0 {
		return r.inline(n, t)
	}
	r.add(issues.Issue{
		Rule:     linter.UnresolvedRefsRule,
		Severity: severity.SeverityError,
		Message:  rules.CycleMessage,
		File:     loc.Source,
		Path:     loc.Pointer,
		Line:     rec.node.Line,
		Column:   rec.node.Column,
	})
	return unresolvedMarker(rec.ref, string(oaserrors.ReasonCycle))
}

// inline returns a copy of the target. Keys next to $ref override the
// target's own keys.
func (r *run) inline(n *yaml.Node, t *resolver.Resolved) *yaml.Node {
	r.emitting[t.Location]++
	out := r.emit(t.Node, t.Location)
	r.emitting[t.Location]--

	if out.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i].Value; k != parser.RefKey {
			parser.SetMapValue(out, k, parser.DeepCopy(n.Content[i+1]))
		}
	}
	return out
}

// slotFor returns the component slot of the reference's target, assigning
// a free one on first use. The same target always gets the same slot.
func (r *run) slotFor(rec *refRecord, loc parser.Location) (slot, bool) {
	t := rec.resolved
	if s, ok := r.slotOf[t.Location]; ok {
		return s, true
	}
	section := r.section(rec.typ)
	if section == "" {
		return slot{}, false
	}

	base := componentBaseName(t.Location)
	names := r.names(section)
	for i := 1; i <= r.maxRename; i++ {
		name := naming.WithSuffix(base, i)
		if names[name] {
			continue
		}
		names[name] = true
		s := slot{section: section, name: name}
		r.slotOf[t.Location] = s
		r.queue = append(r.queue, pending{slot: s, target: t})
		r.relocations = append(r.relocations, Relocation{
			Section: section,
			Name:    name,
			Ref:     pathutil.ComponentRef(section, name, r.oas2),
			Source:  t.Location.String(),
		})
		return s, true
	}

	err := &oaserrors.CollisionError{
		Section:  section,
		Name:     base,
		Source:   t.Location.String(),
		Attempts: r.maxRename,
	}
	r.add(issues.Issue{
		Rule:     CollisionRule,
		Severity: severity.SeverityError,
		Message:  err.Error(),
		File:     loc.Source,
		Path:     loc.Pointer,
		Line:     rec.node.Line,
		Column:   rec.node.Column,
	})
	return slot{}, false
}

// reserveEntryComponents marks every component name of the entry document
// as taken. An entry component that is itself a reference to an external
// target becomes that target's slot and is filled with its content.
func (r *run) reserveEntryComponents() {
	base := parser.RootLocation(r.entry.Locator)
	parent, parentLoc := r.entry.Root, base
	if !r.oas2 {
		parent, parentLoc = parser.MapValue(r.entry.Root, "components"), base.Child("components")
	}

	for _, section := range r.sections() {
		container := parser.MapValue(parent, section)
		if container == nil || container.Kind != yaml.MappingNode {
			continue
		}
		names := r.names(section)
		for i := 0; i+1 < len(container.Content); i += 2 {
			name := container.Content[i].Value
			names[name] = true

			loc := parentLoc.Child(section).Child(name)
			rec, ok := r.refs[loc]
			if !ok || rec.err != nil || rec.resolved.Document.Locator == r.entry.Locator {
				continue
			}
			if r.section(rec.typ) != section {
				continue
			}
			if _, ok := r.slotOf[rec.resolved.Location]; ok {
				continue
			}
			r.slotOf[rec.resolved.Location] = slot{section: section, name: name}
			r.inlineAt[loc] = true
		}
	}
}

func (r *run) names(section string) map[string]bool {
	names, ok := r.taken[section]
	if !ok {
		names = make(map[string]bool)
		r.taken[section] = names
	}
	return names
}

// sections lists the component sections of the entry document's version.
func (r *run) sections() []string {
	if r.oas2 {
		return []string{pathutil.SectionDefinitions, pathutil.SectionParameters, pathutil.SectionResponses}
	}
	s := []string{
		pathutil.SectionSchemas,
		pathutil.SectionResponses,
		pathutil.SectionParameters,
		pathutil.SectionExamples,
		pathutil.SectionRequestBodies,
		pathutil.SectionHeaders,
		pathutil.SectionSecuritySchemes,
		pathutil.SectionLinks,
		pathutil.SectionCallbacks,
	}
	if r.pathItems {
		s = append(s, pathutil.SectionPathItems)
	}
	return s
}

// section returns the component section holding nodes of type t, or "" if
// the version has none.
func (r *run) section(t walker.NodeType) string {
	if r.oas2 {
		switch t {
		case walker.TypeSchema:
			return pathutil.SectionDefinitions
		case walker.TypeParameter:
			return pathutil.SectionParameters
		case walker.TypeResponse:
			return pathutil.SectionResponses
		}
		return ""
	}
	switch t {
	case walker.TypeSchema:
		return pathutil.SectionSchemas
	case walker.TypeParameter:
		return pathutil.SectionParameters
	case walker.TypeResponse:
		return pathutil.SectionResponses
	case walker.TypeRequestBody:
		return pathutil.SectionRequestBodies
	case walker.TypeHeader:
		return pathutil.SectionHeaders
	case walker.TypeExample:
		return pathutil.SectionExamples
	case walker.TypeLink:
		return pathutil.SectionLinks
	case walker.TypeCallback:
		return pathutil.SectionCallbacks
	case walker.TypeSecurityScheme:
		return pathutil.SectionSecuritySchemes
	case walker.TypePathItem:
		if r.pathItems {
			return pathutil.SectionPathItems
		}
	}
	return ""
}

// sectionNode returns the mapping of section in the output root, creating
// it and the components mapping as needed.
func (r *run) sectionNode(root *yaml.Node, section string) *yaml.Node {
	parent := root
	if !r.oas2 {
		parent = childMapping(root, "components")
	}
	return childMapping(parent, section)
}

func childMapping(n *yaml.Node, key string) *yaml.Node {
	if v := parser.MapValue(n, key); v != nil && v.Kind == yaml.MappingNode {
		return v
	}
	m := parser.NewMapping()
	parser.SetMapValue(n, key, m)
	return m
}

// componentBaseName derives a slot name from the last pointer token, or
// from the file name when the target is a whole document.
func componentBaseName(loc parser.Location) string {
	if tok := pathutil.LastToken(loc.Pointer); tok != "" {
		if name := naming.SanitizeComponentName(tok); name != "" {
			return name
		}
	}
	if name := naming.FileComponentName(loc.Source); name != "" {
		return name
	}
	return "Component"
}

// rewriteRef copies a reference node with its $ref value replaced.
func rewriteRef(n *yaml.Node, ref string) *yaml.Node {
	c := parser.DeepCopy(n)
	for i := 0; i+1 < len(c.Content); i += 2 {
		if c.Content[i].Value == parser.RefKey {
			v := *c.Content[i+1]
			v.Value = ref
			v.Style = 0
			c.Content[i+1] = &v
		}
	}
	return c
}

func unresolvedMarker(ref, reason string) *yaml.Node {
	m := parser.NewMapping()
	parser.SetMapValue(m, parser.RefKey, parser.NewString(ref))
	parser.SetMapValue(m, UnresolvedMarkerKey, parser.NewString(reason))
	return m
}

func refErrorReason(err error) string {
	var refErr *oaserrors.ReferenceError
	if errors.As(err, &refErr) {
		return string(refErr.Reason)
	}
	return string(oaserrors.ReasonLoadFailed)
}
