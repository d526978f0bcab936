package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrLoad indicates document content could not be fetched.
	ErrLoad = errors.New("load error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrPathTraversal indicates a path traversal attempt was blocked.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrCollision indicates a bundle component name could not be allocated.
	ErrCollision = errors.New("bundle collision")
)

// LoadError represents a failure to fetch document content.
type LoadError struct {
	// Locator is the canonical locator of the document
	Locator string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Locator != "" {
		msg += " for " + e.Locator
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ParseError represents a failure to parse fetched content as YAML or JSON.
type ParseError struct {
	// Path is the locator of the offending document
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Reason classifies why a reference could not be followed.
type Reason string

const (
	// ReasonPathNotFound means a key or index of the in-document pointer is missing.
	ReasonPathNotFound Reason = "path-not-found"
	// ReasonCycle means the reference chain revisits a location.
	ReasonCycle Reason = "cycle"
	// ReasonLoadFailed means the target document could not be fetched or parsed.
	ReasonLoadFailed Reason = "load-failed"
)

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Source is the location of the reference node ("locator#/pointer")
	Source string
	// Reason classifies the failure
	Reason Reason
	// CycleAt is the location that closed the cycle, for ReasonCycle
	CycleAt string
	// IsPathTraversal is true if the target was outside the allowed base directory
	IsPathTraversal bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	var msg string
	switch {
	case e.IsPathTraversal:
		msg = "path traversal detected"
	case e.Reason == ReasonCycle:
		msg = "circular reference"
	case e.Reason == ReasonPathNotFound:
		msg = "can't resolve reference"
	default:
		msg = "reference error"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrReference, and also ErrCircularReference or ErrPathTraversal
// when appropriate.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrCircularReference:
		return e.Reason == ReasonCycle
	case ErrPathTraversal:
		return e.IsPathTraversal
	}
	return false
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "file_size", "walk_depth", "findings"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// Unknown rule names and invalid severities are reported with Option set to
// the rule name.
type ConfigError struct {
	// Option is the name of the problematic configuration option or rule
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// CollisionError reports that no free component slot was found for a bundled
// target within the rename budget.
type CollisionError struct {
	// Section is the component section, e.g. "schemas"
	Section string
	// Name is the base slot name that collided
	Name string
	// Source is the location of the target that could not be placed
	Source string
	// Attempts is the number of names tried
	Attempts int
}

// Error returns a human-readable error message.
func (e *CollisionError) Error() string {
	msg := "bundle collision"
	if e.Section != "" {
		msg += " in " + e.Section
	}
	if e.Name != "" {
		msg += fmt.Sprintf(": no free name for %q", e.Name)
	}
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Source != "" {
		msg += " (from " + e.Source + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}
