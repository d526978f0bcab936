// Package naming provides the component naming helpers used by the bundler
// when it relocates external definitions into the components section.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
