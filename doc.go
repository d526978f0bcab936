// Package openapicli lints and bundles OpenAPI descriptions.
//
// openapi-cli reads OpenAPI 2.0 and 3.x documents in YAML or JSON, follows every
// $ref across files and URLs, walks the resolved document tree, and evaluates a
// configurable set of rules at each node. The bundle mode produces one
// self-contained document with external references inlined or relocated into
// the document's component table.
//
// # Packages
//
//   - parser: load documents into yaml.Node trees with source locations
//   - resolver: follow $ref chains with memoized document loading and cycle detection
//   - walker: traverse the logical tree with typed visitor dispatch
//   - linter: drive rule visitors and collect findings
//   - rules: the built-in rule set
//   - bundler: produce self-contained documents
//   - config: .openapi.yaml / .redocly.yaml configuration files
//   - metrics: Prometheus collectors for loads, findings, and walks
//   - oaserrors: structured error types
//
// # Quick Start
//
//	l, err := linter.New(rules.Registry(), []linter.Setting{
//		{Rule: "operation-summary", Severity: "error"},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := l.Lint(ctx, "openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range res.Findings {
//		fmt.Println(f)
//	}
//
// The command-line interface lives in cmd/openapi:
//
//	openapi lint openapi.yaml
//	openapi bundle openapi.yaml --output dist/openapi.json
package openapicli
