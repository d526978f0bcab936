package pathutil

import "regexp"

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// TemplateParams returns the parameter names of a path template in order of
// appearance, e.g. ["petId", "ownerId"] for "/pets/{petId}/owners/{ownerId}".
func TemplateParams(template string) []string {
	matches := PathParamRegex.FindAllStringSubmatch(template, -1)
	if len(matches) == 0 {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}
