package rules

import (
	"fmt"
	"strings"

	"github.com/jirutka/openapi-cli/internal/pathutil"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/walker"
	"go.yaml.in/yaml/v4"
)

// PathNotIncludeQuery reports path templates containing a query string.
var PathNotIncludeQuery = &linter.Rule{
	Name:            "path-not-include-query",
	Description:     "Paths must not include query strings.",
	DefaultSeverity: linter.SeverityError,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnEnter(func(wc *walker.WalkContext, r linter.Reporter) walker.Action {
			if path, ok := pathTemplate(wc); ok && strings.Contains(path, "?") {
				r.Report("Don't put query string items in the path, they belong in parameters with `in: query`.", linter.OnKey())
			}
			return walker.Continue
		}, walker.TypePathItem)
	},
}

// NoPathTrailingSlash reports path templates ending with a slash.
var NoPathTrailingSlash = &linter.Rule{
	Name:            "no-path-trailing-slash",
	Description:     "Paths must not end with a slash.",
	DefaultSeverity: linter.SeverityError,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnEnter(func(wc *walker.WalkContext, r linter.Reporter) walker.Action {
			if path, ok := pathTemplate(wc); ok && len(path) > 1 && strings.HasSuffix(path, "/") {
				r.Report(fmt.Sprintf("`%s` should not have a trailing slash.", path), linter.OnKey())
			}
			return walker.Continue
		}, walker.TypePathItem)
	},
}

// PathParamsDefined reports template variables without a matching path
// parameter and path parameters without a matching template variable.
// Parameters are taken from the path item and the operation together.
var PathParamsDefined = &linter.Rule{
	Name:            "path-params-defined",
	Description:     "Path template variables must be defined as path parameters, and vice versa.",
	DefaultSeverity: linter.SeverityError,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnEnter(checkPathParams, walker.TypeOperation)
	},
}

func checkPathParams(wc *walker.WalkContext, r linter.Reporter) walker.Action {
	pi, ok := wc.ParentPathItem()
	if !ok || pi.Parent == nil || pi.Parent.Type != walker.TypePaths {
		return walker.Continue
	}
	template := pi.Key

	expected := pathutil.TemplateParams(template)
	want := make(map[string]bool, len(expected))
	for _, name := range expected {
		want[name] = true
	}

	defined := make(map[string]bool)
	var order []string
	for _, owner := range []*yaml.Node{pi.Node, wc.Node} {
		params := parser.MapValue(owner, "parameters")
		if params == nil || params.Kind != yaml.SequenceNode {
			continue
		}
		for _, p := range params.Content {
			p = wc.Deref(p)
			if in, _ := parser.MapString(p, "in"); in != "path" {
				continue
			}
			name, ok := parser.MapString(p, "name")
			if !ok || defined[name] {
				continue
			}
			defined[name] = true
			order = append(order, name)
		}
	}

	for _, name := range expected {
		if !defined[name] {
			r.Report(fmt.Sprintf("The operation does not define the path parameter `{%s}` expected by path `%s`.", name, template), linter.OnKey())
		}
	}
	for _, name := range order {
		if !want[name] {
			r.Report(fmt.Sprintf("Path parameter `%s` is not used in the path `%s`.", name, template), linter.OnKey())
		}
	}
	return walker.Continue
}
