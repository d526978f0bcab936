package parser

import (
	"go.yaml.in/yaml/v4"
)

// RefKey is the mapping key that turns a node into a reference node.
const RefKey = "$ref"

// Unalias follows YAML aliases and unwraps document nodes.
func Unalias(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.AliasNode:
			n = n.Alias
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		default:
			return n
		}
	}
	return nil
}

// RefValue returns the $ref string of a reference node.
// A reference node is a mapping with a scalar "$ref" entry.
func RefValue(n *yaml.Node) (string, bool) {
	n = Unalias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == RefKey {
			v := Unalias(n.Content[i+1])
			if v == nil || v.Kind != yaml.ScalarNode {
				return "", false
			}
			return v.Value, true
		}
	}
	return "", false
}

// IsRef reports whether n is a reference node.
func IsRef(n *yaml.Node) bool {
	_, ok := RefValue(n)
	return ok
}

// MapGet returns the key and value nodes of key in mapping n.
func MapGet(n *yaml.Node, key string) (keyNode, value *yaml.Node) {
	n = Unalias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i], Unalias(n.Content[i+1])
		}
	}
	return nil, nil
}

// MapValue returns the value node of key in mapping n, or nil.
func MapValue(n *yaml.Node, key string) *yaml.Node {
	_, v := MapGet(n, key)
	return v
}

// MapString returns the scalar value of key in mapping n.
func MapString(n *yaml.Node, key string) (string, bool) {
	v := MapValue(n, key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// MapKeys returns the keys of mapping n in insertion order.
func MapKeys(n *yaml.Node) []string {
	n = Unalias(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

// DeepCopy returns a copy of n sharing no nodes with the original.
// Aliases are expanded.
func DeepCopy(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.AliasNode {
		return DeepCopy(n.Alias)
	}
	c := *n
	c.Anchor = ""
	c.Alias = nil
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = DeepCopy(child)
		}
	}
	return &c
}

// NewMapping returns an empty mapping node.
func NewMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// NewString returns a string scalar node.
func NewString(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// SetMapValue sets key in mapping n, replacing an existing value or appending.
func SetMapValue(n *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			n.Content[i+1] = value
			return
		}
	}
	n.Content = append(n.Content, NewString(key), value)
}
