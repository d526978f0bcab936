package rules

import (
	"fmt"
	"strings"

	"github.com/jirutka/openapi-cli/internal/httputil"
	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/walker"
)

// OperationIDUnique reports operationId values used by more than one
// operation.
var OperationIDUnique = &linter.Rule{
	Name:            "operation-operationId-unique",
	Description:     "Every operation must have a unique operationId.",
	DefaultSeverity: linter.SeverityError,
	New: func() *linter.RuleVisitor {
		seen := make(map[string]parser.Location)
		return linter.NewRuleVisitor().OnEnter(func(wc *walker.WalkContext, r linter.Reporter) walker.Action {
			_, v := parser.MapGet(wc.Node, "operationId")
			if v == nil || v.Value == "" {
				return walker.Continue
			}
			first, dup := seen[v.Value]
			if !dup {
				seen[v.Value] = wc.Location
				return walker.Continue
			}
			// The same operation reached through another reference is not a duplicate.
			if first != wc.Location {
				r.Report(fmt.Sprintf("Every operation must have unique `operationId` (%q first seen at %s).", v.Value, first), linter.At(v))
			}
			return walker.Continue
		}, walker.TypeOperation)
	},
}

// Operation2xxResponse reports operations without a successful response.
var Operation2xxResponse = &linter.Rule{
	Name:            "operation-2xx-response",
	Description:     "Every operation must have at least one 2XX or default response.",
	DefaultSeverity: linter.SeverityWarning,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnEnter(func(wc *walker.WalkContext, r linter.Reporter) walker.Action {
			if wc.Parent == nil || wc.Parent.Type != walker.TypeOperation {
				return walker.Continue
			}
			for _, code := range parser.MapKeys(wc.Node) {
				if code == "default" || httputil.IsSuccessCode(code) {
					return walker.Continue
				}
			}
			r.Report("Operation must have at least one `2XX` response.", linter.OnKey())
			return walker.Continue
		}, walker.TypeResponses)
	},
}

// OperationSummary reports operations without a summary.
var OperationSummary = &linter.Rule{
	Name:            "operation-summary",
	Description:     "Every operation must have a summary.",
	DefaultSeverity: linter.SeverityError,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnEnter(func(wc *walker.WalkContext, r linter.Reporter) walker.Action {
			if s, _ := parser.MapString(wc.Node, "summary"); strings.TrimSpace(s) == "" {
				r.Report("Operation object should contain `summary` field.", linter.OnKey())
			}
			return walker.Continue
		}, walker.TypeOperation)
	},
}
