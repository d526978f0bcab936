package walker

import (
	"github.com/jirutka/openapi-cli/parser"
	"go.yaml.in/yaml/v4"
)

// ParentInfo provides information about a parent node in the traversal.
// This enables handlers to access ancestor nodes for context-aware processing.
type ParentInfo struct {
	// Node is the parent node (resolved, never a reference)
	Node *yaml.Node

	// Type is the node type of Node
	Type NodeType

	// Key is the map key the parent sits under
	Key string

	// Location is the location of Node
	Location parser.Location

	// Parent is the grandparent, enabling ancestor chain traversal.
	// nil for the root-level parent.
	Parent *ParentInfo
}

// Nearest returns the nearest ancestor of type t, if any.
func (wc *WalkContext) Nearest(t NodeType) (*ParentInfo, bool) {
	for p := wc.Parent; p != nil; p = p.Parent {
		if p.Type == t {
			return p, true
		}
	}
	return nil, false
}

// ParentSchema returns the nearest ancestor that is a Schema, if any.
func (wc *WalkContext) ParentSchema() (*ParentInfo, bool) {
	return wc.Nearest(TypeSchema)
}

// ParentOperation returns the nearest ancestor that is an Operation, if any.
func (wc *WalkContext) ParentOperation() (*ParentInfo, bool) {
	return wc.Nearest(TypeOperation)
}

// ParentPathItem returns the nearest ancestor that is a PathItem, if any.
// For path items under "paths", its Key is the path template.
func (wc *WalkContext) ParentPathItem() (*ParentInfo, bool) {
	return wc.Nearest(TypePathItem)
}

// Ancestors returns all ancestors from immediate parent to root.
// The first element is the immediate parent, the last is the root-level ancestor.
func (wc *WalkContext) Ancestors() []*ParentInfo {
	var ancestors []*ParentInfo
	for p := wc.Parent; p != nil; p = p.Parent {
		ancestors = append(ancestors, p)
	}
	return ancestors
}

// Depth returns the number of ancestors (nesting depth).
// Returns 0 at the root.
func (wc *WalkContext) Depth() int {
	depth := 0
	for p := wc.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}
