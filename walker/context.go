package walker

import (
	"context"

	"github.com/jirutka/openapi-cli/parser"
	"go.yaml.in/yaml/v4"
)

// WalkContext provides contextual information about the current node being visited.
// It follows the http.Request pattern for context access.
type WalkContext struct {
	// Node is the current node. For nodes reached through a reference this
	// is the resolved target, never the reference node itself.
	Node *yaml.Node

	// Type is the node type of Node
	Type NodeType

	// Key is the map key the node sits under, e.g. "/pets/{petId}", "get",
	// "200" or "Pet". Empty for sequence items and the root.
	Key string

	// KeyNode is the key node in the parent mapping; nil for sequence items
	// and the root
	KeyNode *yaml.Node

	// Index is the position in the parent sequence, or -1
	Index int

	// Location is the location of Node
	Location parser.Location

	// Slot is the location of the parent's field holding this node. It
	// equals Location unless the node was reached through a reference.
	Slot parser.Location

	// SlotDocument is the document holding the slot (and KeyNode)
	SlotDocument *parser.Document

	// Document is the document holding Node
	Document *parser.Document

	// From is the location of the nearest reference the node was reached
	// through, or nil
	From *parser.Location

	// Parent is the enclosing typed node; nil at the root
	Parent *ParentInfo

	// Version is the "openapi" or "swagger" value of the root document
	Version string

	ctx    context.Context
	walker *Walker
}

// Context returns the context.Context for cancellation and deadline propagation.
// Returns context.Background() if no context was set.
func (wc *WalkContext) Context() context.Context {
	if wc.ctx == nil {
		return context.Background()
	}
	return wc.ctx
}

// IsOAS2 reports whether the walked document is a Swagger 2.0 document.
func (wc *WalkContext) IsOAS2() bool {
	return len(wc.Version) > 0 && wc.Version[0] == '2'
}

// ViaRef reports whether the node was reached through a reference.
func (wc *WalkContext) ViaRef() bool {
	return wc.Slot != wc.Location
}

// Deref resolves n, a node inside wc.Node's subtree or any other node of a
// loaded document. It returns n itself when it is not a reference and nil
// when the reference cannot be resolved.
func (wc *WalkContext) Deref(n *yaml.Node) *yaml.Node {
	if n == nil || !parser.IsRef(n) {
		return parser.Unalias(n)
	}
	if wc.walker == nil {
		return nil
	}
	from, ok := wc.Document.LocationOf(n)
	if !ok {
		from = wc.Location
	}
	res, err := wc.walker.resolver.Resolve(wc.Context(), from, n)
	if err != nil {
		return nil
	}
	return res.Node
}
