package rules

import (
	"errors"
	"fmt"

	"github.com/jirutka/openapi-cli/linter"
	"github.com/jirutka/openapi-cli/oaserrors"
	"github.com/jirutka/openapi-cli/parser"
	"github.com/jirutka/openapi-cli/walker"
)

// CycleMessage is the message of a reference cycle finding.
const CycleMessage = "Circular $ref chain"

// NoUnresolvedRefs reports references that cannot be resolved. A reference
// cycle is reported once, at the member location the resolver names it by,
// however many references lead into it.
var NoUnresolvedRefs = &linter.Rule{
	Name:            linter.UnresolvedRefsRule,
	Description:     "Every $ref must resolve to an existing node.",
	DefaultSeverity: linter.SeverityError,
	New: func() *linter.RuleVisitor {
		return linter.NewRuleVisitor().OnRef(checkRef)
	},
}

func checkRef(_ *walker.WalkContext, ref *walker.RefInfo, r linter.Reporter) walker.Action {
	if ref.Err == nil {
		return walker.Continue
	}
	msg, at, ok := RefErrorMessage(ref.Ref, ref.Err)
	if ok {
		r.Report(msg, linter.AtLocation(at))
	} else {
		r.Report(msg)
	}
	return walker.Continue
}

// RefErrorMessage returns the finding message for a reference that failed to
// resolve. For a cycle it also returns the location the cycle is keyed by;
// ok is false when the finding belongs at the reference itself.
func RefErrorMessage(ref string, err error) (msg string, at parser.Location, ok bool) {
	var refErr *oaserrors.ReferenceError
	if !errors.As(err, &refErr) {
		return fmt.Sprintf("Can't resolve $ref: %v", err), parser.Location{}, false
	}

	switch {
	case refErr.Reason == oaserrors.ReasonCycle:
		at, ok = parser.ParseLocation(refErr.CycleAt)
		return CycleMessage, at, ok
	case refErr.IsPathTraversal:
		return fmt.Sprintf("Can't resolve $ref %q: target is outside the allowed directory", ref), parser.Location{}, false
	}
	msg = fmt.Sprintf("Can't resolve $ref %q", ref)
	if refErr.Message != "" {
		msg += ": " + refErr.Message
	}
	if refErr.Cause != nil {
		msg += ": " + refErr.Cause.Error()
	}
	return msg, parser.Location{}, false
}
