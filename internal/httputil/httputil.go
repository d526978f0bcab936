// Package httputil provides HTTP helpers: status code checks for response
// rules and a client guarded against requests to non-public addresses.
package httputil

import (
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// Wildcard boundary characters for validation
const (
	minWildcardBoundary = '1'
	maxWildcardBoundary = '5'
)

// ValidateStatusCode checks if a status code string is valid according to OpenAPI spec.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX (any letter case)
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" {
		return true
	}

	if strings.HasPrefix(code, "x-") {
		return true
	}

	if len(code) == StatusCodeLength {
		if isWildcard(code) {
			return code[0] >= minWildcardBoundary && code[0] <= maxWildcardBoundary
		}

		if code[0] >= '0' && code[0] <= '9' &&
			code[1] >= '0' && code[1] <= '9' &&
			code[2] >= '0' && code[2] <= '9' {
			statusCode, err := strconv.Atoi(code)
			if err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode {
				return true
			}
		}
	}

	return false
}

// IsSuccessCode reports whether code is a valid 2xx status code or the "2XX"
// wildcard.
func IsSuccessCode(code string) bool {
	return len(code) == StatusCodeLength && code[0] == '2' && ValidateStatusCode(code)
}

func isWildcard(code string) bool {
	return (code[1] == WildcardChar || code[1] == 'x') && (code[2] == WildcardChar || code[2] == 'x')
}
