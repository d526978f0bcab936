package rules

import (
	"strings"

	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/walker"
)

// TagDescription reports tags without a description.
var TagDescription = &linter.Rule{
	Name:            "tag-description",
	Description:     "Every tag must have a description.",
	DefaultSeverity: linter.SeverityWarning,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnEnter(func(wc *walker.WalkContext, r linter.Reporter) walker.Action {
			if d, _ := parser.MapString(wc.Node, "description"); strings.TrimSpace(d) != "" {
				return walker.Continue
			}
			if name := parser.MapValue(wc.Node, "name"); name != nil {
				r.Report("Tag object should contain `description` field.", linter.At(name))
				return walker.Continue
			}
			r.Report("Tag object should contain `description` field.")
			return walker.Continue
		}, walker.TypeTag)
	},
}
