package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jirutka/openapi-cli/oaserrors"
	"github.com/jirutka/openapi-cli/parser"
	"go.yaml.in/yaml/v4"
)

// MaxRefDepth is the maximum number of references followed in one chain.
const MaxRefDepth = 100

// DocumentLoader loads documents by locator. *parser.Loader implements it.
type DocumentLoader interface {
	Load(ctx context.Context, locator string) (*parser.Document, error)
}

// Resolved is the terminal, non-reference node of a reference chain.
type Resolved struct {
	// Node is the terminal node
	Node *yaml.Node
	// Document is the document holding Node
	Document *parser.Document
	// Location is the location of Node
	Location parser.Location
	// Chain lists the locations traversed: Chain[0] is the origin, the last
	// element equals Location
	Chain []parser.Location
}

// Origin returns the location the resolution started from.
func (r *Resolved) Origin() parser.Location {
	return r.Chain[0]
}

// IsRef reports whether at least one reference was followed.
func (r *Resolved) IsRef() bool {
	return len(r.Chain) > 1
}

type docEntry struct {
	doc *parser.Document
	err error
}

// Resolver resolves references for one entry document.
type Resolver struct {
	loader   DocumentLoader
	logger   parser.Logger
	maxDepth int

	docs  map[string]*docEntry
	order []*parser.Document
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l parser.Logger) Option {
	return func(r *Resolver) {
		r.logger = parser.LoggerOrNop(l)
	}
}

// WithMaxDepth overrides MaxRefDepth.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// New creates a Resolver with an empty document cache.
func New(loader DocumentLoader, opts ...Option) *Resolver {
	r := &Resolver{
		loader:   loader,
		logger:   parser.NopLogger{},
		maxDepth: MaxRefDepth,
		docs:     make(map[string]*docEntry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the document at locator, loading it on first use.
// Load failures are memoized.
func (r *Resolver) Document(ctx context.Context, locator string) (*parser.Document, error) {
	canon, err := parser.Canonical(locator)
	if err != nil {
		return nil, &oaserrors.LoadError{Locator: locator, Cause: err}
	}
	if e, ok := r.docs[canon]; ok {
		return e.doc, e.err
	}
	doc, err := r.loader.Load(ctx, canon)
	if err != nil && ctx.Err() != nil {
		// Do not memoize cancellation.
		return nil, err
	}
	r.docs[canon] = &docEntry{doc: doc, err: err}
	if err == nil {
		r.order = append(r.order, doc)
	}
	return doc, err
}

// Documents returns the successfully loaded documents in load order.
func (r *Resolver) Documents() []*parser.Document {
	return r.order
}

// Root loads the entry document and returns its root node. Errors are the
// loader's *oaserrors.LoadError or *oaserrors.ParseError, unwrapped.
func (r *Resolver) Root(ctx context.Context, locator string) (*Resolved, error) {
	doc, err := r.Document(ctx, locator)
	if err != nil {
		return nil, err
	}
	loc := parser.RootLocation(doc.Locator)
	return &Resolved{Node: doc.Root, Document: doc, Location: loc, Chain: []parser.Location{loc}}, nil
}

// Resolve resolves node, located at from. A non-reference node resolves to
// itself with a one-element chain.
func (r *Resolver) Resolve(ctx context.Context, from parser.Location, node *yaml.Node) (*Resolved, error) {
	ref, ok := parser.RefValue(node)
	if !ok {
		doc, err := r.Document(ctx, from.Source)
		if err != nil {
			return nil, err
		}
		return &Resolved{Node: parser.Unalias(node), Document: doc, Location: from, Chain: []parser.Location{from}}, nil
	}
	return r.ResolveRef(ctx, from, ref)
}

// ResolveRef resolves the reference string ref as if written at from.
// All failures are *oaserrors.ReferenceError.
func (r *Resolver) ResolveRef(ctx context.Context, from parser.Location, ref string) (*Resolved, error) {
	chain := []parser.Location{from}
	visited := map[parser.Location]struct{}{from: {}}
	cur := from
	curRef := ref

	for {
		if len(chain) > r.maxDepth {
			return nil, r.refError(from, ref, oaserrors.ReasonLoadFailed, "", &oaserrors.ResourceLimitError{
				ResourceType: "ref_depth",
				Limit:        int64(r.maxDepth),
				Actual:       int64(len(chain)),
				Message:      "reference chain too long",
			})
		}

		target, err := ParseRef(cur.Source, curRef)
		if err != nil {
			return nil, r.refError(from, ref, oaserrors.ReasonPathNotFound, err.Error(), nil)
		}

		doc, err := r.Document(ctx, target.Locator)
		if err != nil {
			refErr := r.refError(from, ref, oaserrors.ReasonLoadFailed, "", err)
			refErr.IsPathTraversal = errors.Is(err, oaserrors.ErrPathTraversal)
			return nil, refErr
		}

		node, err := doc.Lookup(target.Tokens)
		if err != nil {
			msg := err.Error()
			if curRef != ref {
				msg = fmt.Sprintf("via %s: %s", curRef, msg)
			}
			return nil, r.refError(from, ref, oaserrors.ReasonPathNotFound, msg, nil)
		}

		loc, ok := doc.LocationOf(node)
		if !ok {
			loc = parser.Location{Source: doc.Locator, Pointer: target.Pointer()}
		}
		if _, seen := visited[loc]; seen {
			refErr := r.refError(from, ref, oaserrors.ReasonCycle, "", nil)
			refErr.CycleAt = cycleKey(chain, loc).String()
			r.logger.Debug("reference cycle", "ref", ref, "from", from.String(), "cycle", refErr.CycleAt)
			return nil, refErr
		}
		visited[loc] = struct{}{}
		chain = append(chain, loc)

		next, isRef := parser.RefValue(node)
		if !isRef {
			return &Resolved{Node: node, Document: doc, Location: loc, Chain: chain}, nil
		}
		cur, curRef = loc, next
	}
}

func (r *Resolver) refError(from parser.Location, ref string, reason oaserrors.Reason, msg string, cause error) *oaserrors.ReferenceError {
	return &oaserrors.ReferenceError{
		Ref:     ref,
		Source:  from.String(),
		Reason:  reason,
		Message: msg,
		Cause:   cause,
	}
}

// cycleKey names a cycle by its smallest member, so the same cycle entered
// from different members gets the same key.
func cycleKey(chain []parser.Location, closing parser.Location) parser.Location {
	start := 0
	for i, l := range chain {
		if l == closing {
			start = i
			break
		}
	}
	key := closing
	for _, l := range chain[start:] {
		if l.String() < key.String() {
			key = l
		}
	}
	return key
}
