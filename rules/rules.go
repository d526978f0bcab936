// Package rules provides the built-in lint rules.
package rules

import (
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/walker"
)

// Builtin returns the built-in rules in registry order.
func Builtin() []*linter.Rule {
	return []*linter.Rule{
		NoUnresolvedRefs,
		PathNotIncludeQuery,
		OperationIDUnique,
		PathParamsDefined,
		Operation2xxResponse,
		NoPathTrailingSlash,
		OperationSummary,
		TagDescription,
	}
}

// Registry returns a registry holding the built-in rules.
func Registry() *linter.Registry {
	reg, err := linter.NewRegistry(Builtin()...)
	if err != nil {
		// Built-in rule names are unique.
		panic(err)
	}
	return reg
}

// pathTemplate returns the path template of the path item at wc, if wc is a
// path item directly under "paths".
func pathTemplate(wc *walker.WalkContext) (string, bool) {
	if wc.Type != walker.TypePathItem || wc.Parent == nil || wc.Parent.Type != walker.TypePaths {
		return "", false
	}
	return wc.Key, true
}
