// Package resolver follows $ref chains across documents.
//
// A [Resolver] owns the set of documents loaded for one entry document. Each
// document is fetched at most once per canonical locator, and failed loads
// are memoized too, so a broken file is reported once per reference but
// fetched only once.
//
// Resolving a reference node follows chained references until a non-reference
// node is reached. Every location visited is recorded in a per-chain set; a
// chain that revisits a location fails with a [oaserrors.ReferenceError] of
// reason [oaserrors.ReasonCycle] instead of looping:
//
//	r := resolver.New(loader)
//	root, err := r.Root(ctx, "openapi.yaml")
//	res, err := r.Resolve(ctx, loc, node)
//	if errors.Is(err, oaserrors.ErrCircularReference) {
//		// report, do not descend
//	}
//
// Resolvers are not safe for concurrent use; create one per entry document.
package resolver
