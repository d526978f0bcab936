package parser

import (
	"strconv"
	"strings"

	"github.com/jirutka/openapi-cli/internal/pathutil"
)

// Location identifies a node by the canonical locator of its document and an
// RFC 6901 JSON pointer within it. Locations are comparable and are used as
// map keys for cycle detection.
type Location struct {
	// Source is the canonical document locator
	Source string
	// Pointer is the JSON pointer from the document root ("" for the root)
	Pointer string
}

// RootLocation returns the location of a document's root node.
func RootLocation(source string) Location {
	return Location{Source: source}
}

// Child returns the location of the value under key in a mapping at l.
func (l Location) Child(key string) Location {
	return Location{Source: l.Source, Pointer: l.Pointer + "/" + pathutil.EscapeToken(key)}
}

// Index returns the location of the i-th item of a sequence at l.
func (l Location) Index(i int) Location {
	return Location{Source: l.Source, Pointer: l.Pointer + "/" + strconv.Itoa(i)}
}

// Tokens returns the unescaped pointer tokens.
func (l Location) Tokens() []string {
	toks, _ := pathutil.SplitPointer(l.Pointer)
	return toks
}

// IsZero reports whether l is the zero Location.
func (l Location) IsZero() bool {
	return l.Source == "" && l.Pointer == ""
}

// String returns "source#pointer".
func (l Location) String() string {
	return l.Source + "#" + l.Pointer
}

// ParseLocation parses the String form of a Location. Canonical locators
// never contain "#", so the first "#" separates the source from the pointer.
func ParseLocation(s string) (Location, bool) {
	src, ptr, ok := strings.Cut(s, "#")
	if !ok || (ptr != "" && ptr[0] != '/') {
		return Location{}, false
	}
	return Location{Source: src, Pointer: ptr}, true
}
