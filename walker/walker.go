package walker

import (
	"context"
	"fmt"

	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
	"go.yaml.in/yaml/v4"
)

// Action controls the walker's behavior after visiting a node.
type Action int

const (
	// Continue continues walking normally, visiting children and siblings.
	Continue Action = iota

	// SkipChildren skips all children of the current node but continues with
	// siblings. It applies only to the visitor that returned it.
	SkipChildren

	// Stop stops the walk immediately. No more nodes will be visited.
	Stop
)

// IsValid returns true if the action is one of the defined constants.
func (a Action) IsValid() bool {
	return a >= Continue && a <= Stop
}

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case SkipChildren:
		return "SkipChildren"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Action(%d)", a)
	}
}

// DefaultMaxDepth is the default limit on the nesting depth of typed nodes.
const DefaultMaxDepth = 500

// Skip reasons passed to a SkippedHandler.
const (
	SkipReasonDepth = "depth"
	SkipReasonCycle = "cycle"
)

// SkippedHandler is called when a node is not descended into because it
// exceeds the maximum depth or is an ancestor of itself.
type SkippedHandler func(reason string, typ NodeType, loc parser.Location)

// Walker traverses an OpenAPI document tree, following references, and
// dispatches typed nodes to the merged visitors.
type Walker struct {
	resolver  *resolver.Resolver
	dispatch  *Dispatch
	logger    parser.Logger
	maxDepth  int
	stopFunc  func() bool
	onSkipped SkippedHandler

	// Internal state
	ctx        context.Context
	version    string
	stopped    bool
	onStack    map[parser.Location]int
	suppressed []bool
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger for traversal diagnostics.
func WithLogger(l parser.Logger) Option {
	return func(w *Walker) {
		w.logger = parser.LoggerOrNop(l)
	}
}

// WithMaxDepth sets the maximum nesting depth of typed nodes.
// If depth is not positive, it is silently ignored and the default is kept.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

// WithStopFunc sets a predicate checked before each node; the walk stops as
// soon as it returns true.
func WithStopFunc(fn func() bool) Option {
	return func(w *Walker) {
		w.stopFunc = fn
	}
}

// WithSkippedHandler sets a handler called for nodes skipped due to the
// depth limit or an ancestor cycle.
func WithSkippedHandler(fn SkippedHandler) Option {
	return func(w *Walker) {
		w.onSkipped = fn
	}
}

// New creates a Walker that resolves references with res and dispatches to d.
func New(res *resolver.Resolver, d *Dispatch, opts ...Option) *Walker {
	if d == nil {
		d = Merge()
	}
	w := &Walker{
		resolver: res,
		dispatch: d,
		logger:   parser.NopLogger{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk loads the document at locator through res and walks it.
func Walk(ctx context.Context, res *resolver.Resolver, locator string, d *Dispatch, opts ...Option) error {
	root, err := res.Root(ctx, locator)
	if err != nil {
		return err
	}
	return New(res, d, opts...).Walk(ctx, root)
}

// Walk traverses the tree rooted at root, which is treated as the document
// root. It returns ctx's error if the walk was cut short by cancellation and
// nil otherwise, including when a visitor returned Stop.
func (w *Walker) Walk(ctx context.Context, root *resolver.Resolved) error {
	if ctx == nil {
		ctx = context.Background()
	}
	w.ctx = ctx
	w.stopped = false
	w.version = ""
	w.onStack = make(map[parser.Location]int)
	w.suppressed = make([]bool, w.dispatch.Len())

	w.visit(&frame{
		node:    root.Node,
		typ:     TypeRoot,
		index:   -1,
		slot:    root.Location,
		slotDoc: root.Document,
	})
	return ctx.Err()
}

// Stopped reports whether the last walk ended early.
func (w *Walker) Stopped() bool {
	return w.stopped
}

type frame struct {
	node    *yaml.Node
	typ     NodeType
	key     string
	keyNode *yaml.Node
	index   int
	slot    parser.Location
	slotDoc *parser.Document
	from    *parser.Location
	parent  *ParentInfo
	depth   int
}

func (w *Walker) halted() bool {
	if w.stopped {
		return true
	}
	if w.ctx.Err() != nil || (w.stopFunc != nil && w.stopFunc()) {
		w.stopped = true
	}
	return w.stopped
}

func (w *Walker) newContext(f *frame, n *yaml.Node, loc parser.Location, doc *parser.Document, from *parser.Location) *WalkContext {
	return &WalkContext{
		Node:         n,
		Type:         f.typ,
		Key:          f.key,
		KeyNode:      f.keyNode,
		Index:        f.index,
		Location:     loc,
		Slot:         f.slot,
		SlotDocument: f.slotDoc,
		Document:     doc,
		From:         from,
		Parent:       f.parent,
		Version:      w.version,
		ctx:          w.ctx,
		walker:       w,
	}
}

func (w *Walker) visit(f *frame) {
	if w.halted() {
		return
	}
	n := parser.Unalias(f.node)
	if n == nil {
		return
	}
	loc, doc, from := f.slot, f.slotDoc, f.from

	var refSkipped []int
	if ref, ok := parser.RefValue(n); ok {
		info := &RefInfo{Ref: ref, Node: n, Location: f.slot, Type: f.typ}
		info.Resolved, info.Err = w.resolver.Resolve(w.ctx, f.slot, n)
		if info.Err == nil && w.onStack[info.Resolved.Location] > 0 {
			info.Cyclic = true
		}
		if len(w.dispatch.refs) > 0 {
			wc := w.newContext(f, n, f.slot, f.slotDoc, f.from)
			for _, e := range w.dispatch.refs {
				if w.suppressed[e.visitor] {
					continue
				}
				switch e.fn(wc, info) {
				case Stop:
					w.stopped = true
					return
				case SkipChildren:
					refSkipped = append(refSkipped, e.visitor)
				}
			}
		}
		if info.Err != nil {
			return
		}
		if info.Cyclic {
			w.skip(SkipReasonCycle, f.typ, info.Resolved.Location)
			return
		}
		refLoc := f.slot
		n, loc, doc, from = parser.Unalias(info.Resolved.Node), info.Resolved.Location, info.Resolved.Document, &refLoc
	}

	if f.depth > w.maxDepth {
		w.skip(SkipReasonDepth, f.typ, loc)
		return
	}
	if n.Kind != yaml.MappingNode {
		return
	}
	if f.typ == TypeRoot {
		w.version, _ = parser.MapString(n, "openapi")
		if w.version == "" {
			w.version, _ = parser.MapString(n, "swagger")
		}
	}

	w.onStack[loc]++
	defer func() { w.onStack[loc]-- }()
	skipped := w.suppress(refSkipped)
	defer func() { w.restore(skipped) }()

	wc := w.newContext(f, n, loc, doc, from)
	for _, e := range w.dispatch.enter[f.typ] {
		if w.suppressed[e.visitor] {
			continue
		}
		switch e.fn(wc) {
		case Stop:
			w.stopped = true
			return
		case SkipChildren:
			skipped = append(skipped, w.suppress([]int{e.visitor})...)
		}
	}

	pi := &ParentInfo{Node: n, Type: f.typ, Key: f.key, Location: loc, Parent: f.parent}
	w.children(n, f, pi, loc, doc, from)
	if w.stopped {
		return
	}

	// Visitors that skipped this node's children are still suppressed here
	// and get no Leave call.
	for _, e := range w.dispatch.leave[f.typ] {
		if w.suppressed[e.visitor] {
			continue
		}
		if e.fn(wc) == Stop {
			w.stopped = true
			return
		}
	}
}

// suppress marks the given visitors as suppressed and returns those that
// were not already.
func (w *Walker) suppress(visitors []int) []int {
	var changed []int
	for _, v := range visitors {
		if !w.suppressed[v] {
			w.suppressed[v] = true
			changed = append(changed, v)
		}
	}
	return changed
}

func (w *Walker) restore(visitors []int) {
	for _, v := range visitors {
		w.suppressed[v] = false
	}
}

func (w *Walker) skip(reason string, typ NodeType, loc parser.Location) {
	w.logger.Debug("node skipped", "reason", reason, "type", typ.String(), "location", loc.String())
	if w.onSkipped != nil {
		w.onSkipped(reason, typ, loc)
	}
}

func (w *Walker) children(n *yaml.Node, f *frame, pi *ParentInfo, loc parser.Location, doc *parser.Document, from *parser.Location) {
	next := func(node *yaml.Node, typ NodeType, key string, keyNode *yaml.Node, index int, slot parser.Location) {
		w.visit(&frame{
			node:    node,
			typ:     typ,
			key:     key,
			keyNode: keyNode,
			index:   index,
			slot:    slot,
			slotDoc: doc,
			from:    from,
			parent:  pi,
			depth:   f.depth + 1,
		})
	}

	if et, ok := elementTypes[f.typ]; ok {
		for i := 0; i+1 < len(n.Content) && !w.stopped; i += 2 {
			k := n.Content[i].Value
			if IsExtension(k) {
				continue
			}
			next(n.Content[i+1], et, k, n.Content[i], -1, loc.Child(k))
		}
		return
	}

	shape := shapes[f.typ]
	if shape == nil {
		return
	}
	for i := 0; i+1 < len(n.Content) && !w.stopped; i += 2 {
		k := n.Content[i].Value
		c, ok := shape[k]
		if !ok {
			continue
		}
		v := parser.Unalias(n.Content[i+1])
		if v == nil {
			continue
		}
		field := loc.Child(k)
		kind := c.kind
		if kind == oneOrList {
			kind = one
			if v.Kind == yaml.SequenceNode {
				kind = list
			}
		}
		switch kind {
		case one:
			next(v, c.typ, k, n.Content[i], -1, field)
		case list:
			if v.Kind != yaml.SequenceNode {
				continue
			}
			for j, item := range v.Content {
				if w.stopped {
					return
				}
				next(item, c.typ, "", nil, j, field.Index(j))
			}
		case mapOf:
			if v.Kind != yaml.MappingNode || parser.IsRef(v) {
				continue
			}
			for j := 0; j+1 < len(v.Content) && !w.stopped; j += 2 {
				name := v.Content[j].Value
				if c.typ != TypeSchema && IsExtension(name) {
					continue
				}
				next(v.Content[j+1], c.typ, name, v.Content[j], -1, field.Child(name))
			}
		}
	}
}
