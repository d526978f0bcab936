package resolver

import (
	"fmt"

	"github.com/jirutka/openapi-cli/internal/pathutil"
	"github.com/jirutka/openapi-cli/parser"
)

// Target is a parsed reference: the canonical locator of the target document
// and the unescaped tokens of the in-document pointer.
type Target struct {
	Locator string
	Tokens  []string
}

// Pointer returns the target's JSON pointer.
func (t Target) Pointer() string {
	return pathutil.JoinPointer(t.Tokens...)
}

// String returns "locator#pointer".
func (t Target) String() string {
	return t.Locator + "#" + t.Pointer()
}

// ParseRef splits ref into a target document and pointer. A reference
// without a document part targets base; relative document parts resolve
// against base.
func ParseRef(base, ref string) (Target, error) {
	docPart, fragment := parser.SplitRef(ref)
	locator, err := parser.ResolveLocator(base, docPart)
	if err != nil {
		return Target{}, err
	}
	tokens, err := pathutil.SplitPointer(fragment)
	if err != nil {
		return Target{}, fmt.Errorf("resolver: %w", err)
	}
	return Target{Locator: locator, Tokens: tokens}, nil
}
