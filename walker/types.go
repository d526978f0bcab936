package walker

// NodeType identifies the kind of OpenAPI object a node represents. The set
// is the union of the OpenAPI 2.0 and 3.x object kinds.
type NodeType int

const (
	TypeRoot NodeType = iota
	TypeInfo
	TypeContact
	TypeLicense
	TypeServer
	TypeServerVariable
	TypeTag
	TypeExternalDocs
	TypePaths
	TypePathItem
	TypeOperation
	TypeParameter
	TypeRequestBody
	TypeMediaType
	TypeEncoding
	TypeResponses
	TypeResponse
	TypeHeader
	TypeSchema
	TypeDiscriminator
	TypeXML
	TypeExample
	TypeLink
	TypeCallback
	TypeComponents
	TypeSecurityScheme
	TypeSecurityRequirement

	numTypes
)

var typeNames = [numTypes]string{
	TypeRoot:                "Root",
	TypeInfo:                "Info",
	TypeContact:             "Contact",
	TypeLicense:             "License",
	TypeServer:              "Server",
	TypeServerVariable:      "ServerVariable",
	TypeTag:                 "Tag",
	TypeExternalDocs:        "ExternalDocs",
	TypePaths:               "Paths",
	TypePathItem:            "PathItem",
	TypeOperation:           "Operation",
	TypeParameter:           "Parameter",
	TypeRequestBody:         "RequestBody",
	TypeMediaType:           "MediaType",
	TypeEncoding:            "Encoding",
	TypeResponses:           "Responses",
	TypeResponse:            "Response",
	TypeHeader:              "Header",
	TypeSchema:              "Schema",
	TypeDiscriminator:       "Discriminator",
	TypeXML:                 "XML",
	TypeExample:             "Example",
	TypeLink:                "Link",
	TypeCallback:            "Callback",
	TypeComponents:          "Components",
	TypeSecurityScheme:      "SecurityScheme",
	TypeSecurityRequirement: "SecurityRequirement",
}

// IsValid reports whether t is one of the defined node types.
func (t NodeType) IsValid() bool {
	return t >= TypeRoot && t < numTypes
}

// String returns the type name, e.g. "PathItem".
func (t NodeType) String() string {
	if !t.IsValid() {
		return "Unknown"
	}
	return typeNames[t]
}

// ParseNodeType returns the type with the given name.
func ParseNodeType(name string) (NodeType, bool) {
	for i, n := range typeNames {
		if n == name {
			return NodeType(i), true
		}
	}
	return 0, false
}

// AllTypes returns every node type in declaration order.
func AllTypes() []NodeType {
	out := make([]NodeType, numTypes)
	for i := range out {
		out[i] = NodeType(i)
	}
	return out
}

// childKind describes how a field holds its typed children.
type childKind int

const (
	one       childKind = iota // a single object
	list                       // a sequence of objects
	mapOf                      // a mapping of name to object
	oneOrList                  // a single object or a sequence (schema items)
)

type child struct {
	kind childKind
	typ  NodeType
}

// HTTPMethods lists the operation keys of a path item.
var HTTPMethods = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace", "query"}

// elementTypes are the types whose every non-extension key is an element of
// a single child type.
var elementTypes = map[NodeType]NodeType{
	TypePaths:     TypePathItem,
	TypeResponses: TypeResponse,
	TypeCallback:  TypePathItem,
}

// shapes maps each type to its typed fields. Fields missing from a shape are
// opaque and never descended into.
var shapes = map[NodeType]map[string]child{
	TypeRoot: {
		"info":                {one, TypeInfo},
		"servers":             {list, TypeServer},
		"paths":               {one, TypePaths},
		"webhooks":            {mapOf, TypePathItem},
		"components":          {one, TypeComponents},
		"security":            {list, TypeSecurityRequirement},
		"tags":                {list, TypeTag},
		"externalDocs":        {one, TypeExternalDocs},
		"definitions":         {mapOf, TypeSchema},
		"parameters":          {mapOf, TypeParameter},
		"responses":           {mapOf, TypeResponse},
		"securityDefinitions": {mapOf, TypeSecurityScheme},
	},
	TypeInfo: {
		"contact": {one, TypeContact},
		"license": {one, TypeLicense},
	},
	TypeServer: {
		"variables": {mapOf, TypeServerVariable},
	},
	TypeTag: {
		"externalDocs": {one, TypeExternalDocs},
	},
	TypePathItem: pathItemShape(),
	TypeOperation: {
		"externalDocs": {one, TypeExternalDocs},
		"parameters":   {list, TypeParameter},
		"requestBody":  {one, TypeRequestBody},
		"responses":    {one, TypeResponses},
		"callbacks":    {mapOf, TypeCallback},
		"security":     {list, TypeSecurityRequirement},
		"servers":      {list, TypeServer},
	},
	TypeParameter: {
		"schema":   {one, TypeSchema},
		"items":    {one, TypeSchema},
		"content":  {mapOf, TypeMediaType},
		"examples": {mapOf, TypeExample},
	},
	TypeRequestBody: {
		"content": {mapOf, TypeMediaType},
	},
	TypeMediaType: {
		"schema":   {one, TypeSchema},
		"examples": {mapOf, TypeExample},
		"encoding": {mapOf, TypeEncoding},
	},
	TypeEncoding: {
		"headers": {mapOf, TypeHeader},
	},
	TypeResponse: {
		"schema":  {one, TypeSchema},
		"headers": {mapOf, TypeHeader},
		"content": {mapOf, TypeMediaType},
		"links":   {mapOf, TypeLink},
	},
	TypeHeader: {
		"schema":   {one, TypeSchema},
		"items":    {one, TypeSchema},
		"content":  {mapOf, TypeMediaType},
		"examples": {mapOf, TypeExample},
	},
	TypeSchema: {
		"properties":            {mapOf, TypeSchema},
		"patternProperties":     {mapOf, TypeSchema},
		"dependentSchemas":      {mapOf, TypeSchema},
		"$defs":                 {mapOf, TypeSchema},
		"additionalProperties":  {one, TypeSchema},
		"items":                 {oneOrList, TypeSchema},
		"prefixItems":           {list, TypeSchema},
		"allOf":                 {list, TypeSchema},
		"anyOf":                 {list, TypeSchema},
		"oneOf":                 {list, TypeSchema},
		"not":                   {one, TypeSchema},
		"if":                    {one, TypeSchema},
		"then":                  {one, TypeSchema},
		"else":                  {one, TypeSchema},
		"contains":              {one, TypeSchema},
		"propertyNames":         {one, TypeSchema},
		"unevaluatedItems":      {one, TypeSchema},
		"unevaluatedProperties": {one, TypeSchema},
		"discriminator":         {one, TypeDiscriminator},
		"xml":                   {one, TypeXML},
		"externalDocs":          {one, TypeExternalDocs},
	},
	TypeLink: {
		"server": {one, TypeServer},
	},
	TypeComponents: {
		"schemas":         {mapOf, TypeSchema},
		"responses":       {mapOf, TypeResponse},
		"parameters":      {mapOf, TypeParameter},
		"examples":        {mapOf, TypeExample},
		"requestBodies":   {mapOf, TypeRequestBody},
		"headers":         {mapOf, TypeHeader},
		"securitySchemes": {mapOf, TypeSecurityScheme},
		"links":           {mapOf, TypeLink},
		"callbacks":       {mapOf, TypeCallback},
		"pathItems":       {mapOf, TypePathItem},
	},
}

func pathItemShape() map[string]child {
	s := map[string]child{
		"parameters": {list, TypeParameter},
		"servers":    {list, TypeServer},
	}
	for _, m := range HTTPMethods {
		s[m] = child{one, TypeOperation}
	}
	return s
}

// IsExtension reports whether key is a specification extension ("x-...").
func IsExtension(key string) bool {
	return len(key) > 2 && key[0] == 'x' && key[1] == '-'
}
