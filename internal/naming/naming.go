// Package naming provides shared case conversion utilities.
package naming

import (
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "api-client" -> "ApiClient"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	titleCaser := cases.Title(language.English, cases.NoLower)

	var result strings.Builder
	result.Grow(len(s))
	capitalizeNext := true

	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || r == '/' || r == ' ' {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteString(titleCaser.String(string(r)))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// SanitizeComponentName replaces every character not allowed in an OpenAPI
// component key (letters, digits, ".", "-", "_") with "_".
func SanitizeComponentName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// FileComponentName derives a component name from a document locator:
// "schemas/pet-status.yaml" -> "PetStatus".
func FileComponentName(locator string) string {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}
	base := path.Base(strings.ReplaceAll(locator, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return SanitizeComponentName(ToPascalCase(base))
}

// WithSuffix returns name for n <= 1 and "name-n" otherwise.
func WithSuffix(name string, n int) string {
	if n <= 1 {
		return name
	}
	return name + "-" + strconv.Itoa(n)
}
