// Package oaserrors provides structured error types for openapi-cli.
//
// Import path: github.com/jirutka/openapi-cli/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between failures that abort a run, failures that
// abort one entry document, and failures that are reported as findings.
//
// # Error Types
//
//   - [LoadError]: content could not be fetched (missing file, network failure)
//   - [ParseError]: content was fetched but is not well-formed YAML/JSON
//   - [ReferenceError]: a $ref could not be followed (path not found, cycle, load failed)
//   - [ConfigError]: unknown rule, invalid severity, or invalid option
//   - [CollisionError]: component renaming exhausted its attempts while bundling
//   - [ResourceLimitError]: a depth, size, or count limit was exceeded
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrLoad]: Matches any [LoadError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with Reason [ReasonCycle]
//   - [ErrPathTraversal]: Matches [ReferenceError] with IsPathTraversal=true
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrCollision]: Matches any [CollisionError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//
// # Propagation
//
// Reference errors never unwind past the node they occur at; the linter and
// bundler turn them into findings. Load and parse errors of an entry document
// abort that entry only. Configuration errors abort the whole run before any
// document is loaded.
//
//	res, err := lint.Lint(ctx, "openapi.yaml")
//	if err != nil {
//	    var loadErr *oaserrors.LoadError
//	    if errors.As(err, &loadErr) {
//	        // entry could not be fetched
//	    }
//	}
package oaserrors
