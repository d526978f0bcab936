package walker

import (
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/resolver"
	"go.yaml.in/yaml/v4"
)

// RefInfo describes a reference node encountered during traversal.
type RefInfo struct {
	// Ref is the $ref value (e.g., "#/components/schemas/User")
	Ref string

	// Node is the reference node itself
	Node *yaml.Node

	// Location is where the reference node sits
	Location parser.Location

	// Type is the node type expected at this position
	Type NodeType

	// Resolved is the resolution result; nil when Err is set
	Resolved *resolver.Resolved

	// Err is the resolution error, an *oaserrors.ReferenceError
	Err error

	// Cyclic is true when the target is an ancestor of the reference, so the
	// walker does not descend into it again
	Cyclic bool
}

// RefHandler is called when a $ref is encountered during traversal.
// Return Stop to halt traversal, SkipChildren to not follow the reference,
// Continue to proceed.
type RefHandler func(wc *WalkContext, ref *RefInfo) Action
