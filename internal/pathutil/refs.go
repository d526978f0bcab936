// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

// OAS 2.0 component sections
const (
	SectionDefinitions = "definitions"
	SectionParameters  = "parameters"
	SectionResponses   = "responses"
)

// OAS 3.x component sections, under "components"
const (
	SectionSchemas         = "schemas"
	SectionRequestBodies   = "requestBodies"
	SectionHeaders         = "headers"
	SectionExamples        = "examples"
	SectionLinks           = "links"
	SectionCallbacks       = "callbacks"
	SectionSecuritySchemes = "securitySchemes"
	SectionPathItems       = "pathItems"
)

// ComponentPointer returns the JSON pointer of a component slot.
// For oas2 the section is a top-level key, otherwise it lives under "components".
func ComponentPointer(section, name string, oas2 bool) string {
	if oas2 {
		return JoinPointer(section, name)
	}
	return JoinPointer("components", section, name)
}

// ComponentRef builds a local $ref to a component slot, e.g.
// "#/components/schemas/Pet" or, for oas2, "#/definitions/Pet".
func ComponentRef(section, name string, oas2 bool) string {
	return "#" + ComponentPointer(section, name, oas2)
}

// SchemaRef builds "#/components/schemas/{name}" (OAS 3.x).
func SchemaRef(name string) string {
	return ComponentRef(SectionSchemas, name, false)
}

// DefinitionRef builds "#/definitions/{name}" (OAS 2.0).
func DefinitionRef(name string) string {
	return ComponentRef(SectionDefinitions, name, true)
}
