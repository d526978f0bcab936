// Package linter provides the rule engine.
//
// A [Linter] is built from a [Registry] of rules and an ordered list of
// [Setting] values. For every entry document it creates a fresh resolver and
// fresh rule instances, merges the rule visitors into one walker dispatch
// table and walks the document once. Rules report through a [Reporter]
// bound to the current node; the engine stamps the rule name, the
// configured severity and the source location, and drops duplicates, so a
// node shared by several logical paths yields one finding.
//
// # Rule Order
//
// The "no-unresolved-refs" rule always runs first. Configured rules follow
// in configuration order, then the remaining registry rules whose default
// severity is not off, in registry order. Rules configured "off" are never
// instantiated.
//
// # Example
//
//	reg, _ := linter.NewRegistry(rules.Builtin()...)
//	l, err := linter.New(reg, []linter.Setting{
//	    {Rule: "operation-summary", Severity: "error"},
//	})
//	if err != nil {
//	    log.Fatal(err) // *oaserrors.ConfigError
//	}
//	result, err := l.Lint(ctx, "openapi.yaml")
//	if err != nil {
//	    log.Fatal(err) // the entry document could not be loaded
//	}
//	for _, f := range result.Findings {
//	    fmt.Println(f)
//	}
package linter
