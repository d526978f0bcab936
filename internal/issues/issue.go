// Package issues provides the finding type shared by the linter, the bundler,
// and the presenters.
package issues

import (
	"fmt"

	"github.com/jirutka/openapi-cli/internal/severity"
)

// Issue represents a single rule violation reported during a lint or bundle run.
type Issue struct {
	// Rule is the name of the rule that reported the issue
	Rule string `json:"rule"`
	// Severity is stamped from the rule's configured severity
	Severity severity.Severity `json:"severity"`
	// Message is a human-readable description of the issue
	Message string `json:"message"`
	// File is the canonical locator of the document holding the node
	File string `json:"file"`
	// Path is the RFC 6901 JSON pointer of the node within File
	Path string `json:"pointer"`
	// OnKey is true when the issue is located at the node's key rather than its value
	OnKey bool `json:"onKey,omitempty"`
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int `json:"line,omitempty"`
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int `json:"column,omitempty"`
	// From is the location of the $ref the node was reached through, if any
	From string `json:"from,omitempty"`
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	default:
		symbol = "?"
	}

	sb := getStringBuilder()
	defer putStringBuilder(sb)

	sb.WriteString(symbol)
	sb.WriteByte(' ')
	sb.WriteString(i.Pointer())
	if i.Line > 0 {
		fmt.Fprintf(sb, " (line %d, col %d)", i.Line, i.Column)
	}
	sb.WriteString(": ")
	sb.WriteString(i.Message)
	if i.Rule != "" {
		sb.WriteString(" [")
		sb.WriteString(i.Rule)
		sb.WriteByte(']')
	}
	if i.From != "" {
		sb.WriteString("\n    From: ")
		sb.WriteString(i.From)
	}
	return sb.String()
}

// Pointer returns "file#/pointer", the canonical string form of the issue's location.
func (i Issue) Pointer() string {
	return i.File + "#" + i.Path
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line:column" if file is set, "line:column" if only line is set,
// or the JSON pointer if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Pointer()
	}
	if i.File != "" {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// HasLocation returns true if this issue has source location information.
func (i Issue) HasLocation() bool {
	return i.Line > 0
}

// Key identifies an issue for de-duplication: the same rule reporting the same
// message at the same place is one issue, however many logical paths reach it.
func (i Issue) Key() string {
	key := i.Rule + "\x00" + i.Pointer() + "\x00" + i.Message
	if i.OnKey {
		key += "\x00k"
	}
	return key
}

// Count returns the number of error and warning issues.
func Count(list []Issue) (errors, warnings int) {
	for _, i := range list {
		switch i.Severity {
		case severity.SeverityError:
			errors++
		case severity.SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
