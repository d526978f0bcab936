// Package walker provides a document traversal API for OpenAPI documents.
//
// The walker visits the typed objects of an OAS 2.0 or 3.x document in
// document order, follows references through a [resolver.Resolver] and
// dispatches each object to a set of merged visitors. Visitors register
// callbacks per [NodeType]; fields that carry no OpenAPI object (examples,
// enum values, vendor extensions) are opaque and never descended into.
//
// # Quick Start
//
// Collect all operation IDs:
//
//	var ids []string
//	v := walker.NewVisitor("ids").OnEnter(func(wc *walker.WalkContext) walker.Action {
//	    if id, ok := parser.MapString(wc.Node, "operationId"); ok {
//	        ids = append(ids, id)
//	    }
//	    return walker.Continue
//	}, walker.TypeOperation)
//
//	loader, _ := parser.NewLoader()
//	res := resolver.New(loader)
//	err := walker.Walk(ctx, res, "api.yaml", walker.Merge(v))
//
// # Flow Control
//
// Callbacks return an [Action] to control traversal:
//
//   - [Continue]: continue traversing children and siblings normally
//   - [SkipChildren]: skip the children of the current node for this visitor
//     only; other visitors still see them
//   - [Stop]: stop the entire walk immediately
//
// Leave callbacks are not called for a visitor whose Enter callback
// returned SkipChildren or Stop for the same node.
//
// # References
//
// A reference node is reported to every visitor's [RefHandler] before it is
// followed. The resolved target is then visited as if it stood in place of
// the reference; [WalkContext.From] points back at the reference and
// [WalkContext.Slot] at the field holding it. Targets that are already
// being visited higher up the tree (a schema containing itself, for
// example) are flagged with [RefInfo.Cyclic] and not descended into again.
// Unresolvable references are reported with [RefInfo.Err] and skipped.
//
// # Parent Tracking
//
// [WalkContext.Parent] links to the enclosing typed nodes, with helpers
// such as [WalkContext.ParentOperation] and [WalkContext.ParentPathItem].
package walker
